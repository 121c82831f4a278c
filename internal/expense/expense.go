package expense

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// DefaultCategory is used when neither the input nor the merchant has one.
const DefaultCategory = "Otros"

// Status is the lifecycle state of an expense. Pending drafts are the only
// mutable ones; confirmed and rejected are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

type PaymentMethod string

const (
	PaymentDebit    PaymentMethod = "debit"
	PaymentCredit   PaymentMethod = "credit"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

var paymentAliases = map[string]PaymentMethod{
	"debit":         PaymentDebit,
	"debito":        PaymentDebit,
	"débito":        PaymentDebit,
	"credit":        PaymentCredit,
	"credito":       PaymentCredit,
	"crédito":       PaymentCredit,
	"cash":          PaymentCash,
	"efectivo":      PaymentCash,
	"transfer":      PaymentTransfer,
	"transferencia": PaymentTransfer,
}

// ParsePaymentMethod accepts English and Spanish names in any case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	pm, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]
	return pm, ok
}

// Label is the Spanish name shown to users.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentDebit:
		return "Débito"
	case PaymentCredit:
		return "Crédito"
	case PaymentCash:
		return "Efectivo"
	case PaymentTransfer:
		return "Transferencia"
	}

	return string(p)
}

// Expense is a draft or reconciled purchase. Amount is in whole pesos.
type Expense struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Amount         int64
	MerchantName   string
	MerchantID     *uuid.UUID
	Merchant       *Merchant // Loaded via JOIN
	Category       string
	Date           civil.Date
	DocumentNumber string
	PaymentMethod  PaymentMethod
	CardID         *uuid.UUID
	Card           *Card // Loaded via JOIN
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Merchant struct {
	ID       uuid.UUID
	Name     string
	IssuerID string
}

type Card struct {
	ID   uuid.UUID
	Name string
}

// DisplayMerchant prefers the catalog name over the free-text one.
func (e *Expense) DisplayMerchant() string {
	if e.Merchant != nil && e.Merchant.Name != "" {
		return e.Merchant.Name
	}

	return e.MerchantName
}

// IssuerID returns the RUT of the linked merchant, if any.
func (e *Expense) IssuerID() string {
	if e.Merchant == nil {
		return ""
	}

	return e.Merchant.IssuerID
}
