package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidPhone = errors.New("invalid phone number")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	// UpsertUser returns the user with u.PhoneNumber, creating it if absent.
	UpsertUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizePhone strips formatting so "+56 9 1234 5678" and "56912345678" compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder

	for _, r := range phone {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Resolve returns the user for phone, creating it on first contact.
func (s *Service) Resolve(ctx context.Context, phone, name string) (*User, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	u := &User{PhoneNumber: phone, Name: strings.TrimSpace(name)}
	if err := s.repo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return s.repo.FindByPhone(ctx, NormalizePhone(phone))
}
