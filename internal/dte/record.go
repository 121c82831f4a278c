// Package dte extracts the stamped digest (TED) that Chilean electronic tax
// documents print as a PDF417 symbol and embed in their XML.
package dte

import (
	"errors"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// ErrNotFound is returned when no complete TED record can be recovered.
var ErrNotFound = errors.New("dte: record not found")

// DocumentType is the SII document type code (TD).
type DocumentType int

const (
	TypeInvoice         DocumentType = 33
	TypeExemptInvoice   DocumentType = 34
	TypeReceipt         DocumentType = 39
	TypeExemptReceipt   DocumentType = 41
	TypePurchaseInvoice DocumentType = 46
	TypeDispatchGuide   DocumentType = 52
	TypeDebitNote       DocumentType = 56
	TypeCreditNote      DocumentType = 61
)

func (t DocumentType) String() string {
	switch t {
	case TypeInvoice:
		return "Factura Electrónica"
	case TypeExemptInvoice:
		return "Factura Exenta"
	case TypeReceipt:
		return "Boleta Electrónica"
	case TypeExemptReceipt:
		return "Boleta Exenta"
	case TypePurchaseInvoice:
		return "Factura de Compra"
	case TypeDispatchGuide:
		return "Guía de Despacho"
	case TypeDebitNote:
		return "Nota de Débito"
	case TypeCreditNote:
		return "Nota de Crédito"
	}

	return "DTE " + strconv.Itoa(int(t))
}

// Record is the flat form of a TED digest.
type Record struct {
	IssuerID       string // RE, issuer RUT
	CounterpartyID string // RR, receiver RUT
	Date           civil.Date
	TotalAmount    int64 // MNT, whole pesos
	DocumentNumber string
	DocumentType   DocumentType
}

// NormalizeRUT strips thousands separators and spaces and upper-cases the
// check digit, so "76.123.456-k" and "76123456-K" compare equal.
func NormalizeRUT(rut string) string {
	var b strings.Builder

	for _, r := range strings.ToUpper(rut) {
		if r >= '0' && r <= '9' || r == 'K' || r == '-' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
