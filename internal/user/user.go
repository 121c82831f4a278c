package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// User is identified by the phone number the chat channel reports.
type User struct {
	ID          uuid.UUID
	PhoneNumber string
	Name        string
	CreatedAt   time.Time
}
