package merchant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("merchant not found")

// UnknownName is used when neither the document nor the extractor yields a name.
const UnknownName = "Comercio Desconocido"

// Merchant is a catalog entry. Entries are created on first sighting and never deleted.
type Merchant struct {
	ID        uuid.UUID
	Name      string
	IssuerID  string // RUT; empty when unknown
	Category  string // empty when unknown
	CreatedAt time.Time
}
