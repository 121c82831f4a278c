package view

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.Spanish)

// FormatAmount renders whole pesos with Spanish digit grouping, e.g. $12.990.
func FormatAmount(pesos int64) string {
	return printer.Sprintf("$%d", pesos)
}

// FormatDate formats a date as DD-MM-YYYY.
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("02-01-2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
