// Package auth decides who may talk to the bot and carries the caller's user
// through HTTP requests.
package auth

import (
	"github.com/MrJamesThe3rd/gastos/internal/user"
)

// Authorizer reports whether a phone number may use the bot.
type Authorizer interface {
	Allowed(phone string) bool
}

// AllowList authorizes a fixed set of phone numbers. An empty list lets
// everyone in.
type AllowList struct {
	numbers map[string]struct{}
}

func NewAllowList(numbers []string) *AllowList {
	set := make(map[string]struct{}, len(numbers))

	for _, n := range numbers {
		if n = user.NormalizePhone(n); n != "" {
			set[n] = struct{}{}
		}
	}

	return &AllowList{numbers: set}
}

func (a *AllowList) Allowed(phone string) bool {
	if len(a.numbers) == 0 {
		return true
	}

	_, ok := a.numbers[user.NormalizePhone(phone)]

	return ok
}
