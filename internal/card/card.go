package card

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("card not found")
	ErrInvalidInput = errors.New("invalid card")
)

// Card is a user's credit card, referenced by name in chat corrections.
type Card struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Last4      string
	ClosingDay int
	PaymentDay int
	CreatedAt  time.Time
}
