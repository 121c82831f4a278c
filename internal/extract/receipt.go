package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/gastos/internal/dte"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const receiptSystem = "You are a helpful accountant assistant that extracts data from receipts in JSON format."

const receiptPrompt = `Eres un experto contable y asistente financiero.
Hoy es: %s.

Analiza la imagen proporcionada. Puede ser:
1. Una boleta/factura chilena.
2. Un pantallazo de una notificación bancaria (banco, app de pagos, etc.).

Si hay MÚLTIPLES notificaciones en la imagen, extrae solo la MÁS RECIENTE (la de más arriba).

Extrae los siguientes datos en formato JSON estricto:
- "merchant": nombre del comercio (string). Si es notificación, limpia el nombre (ej: "CMP LIDER" -> "Lider").
- "rut": RUT del emisor si es visible (string, formato chileno XX.XXX.XXX-X).
- "receipt_number": número de boleta o factura (string). Busca "Boleta N°", "Folio", "#", "N° Operación".
- "amount": total de la boleta o transacción (número entero, pesos chilenos, sin puntos).
- "date": fecha de la transacción (string YYYY-MM-DD). Si dice "ayer", calcula la fecha a partir de hoy. Si solo hay hora, asume hoy.
- "category": categoría sugerida (Comida, Supermercado, Transporte, Hogar, Salud, Otros).
- "payment_method": método de pago detectado ("Debit", "Credit", "Cash" o "Transfer").
- "card_name": si es Crédito, nombre del banco o tarjeta (ej: "Visa Falabella").
- "items": lista de items con "name" y "amount". Si es notificación, lista vacía.

Si no puedes leer algún dato, déjalo como null.`

type Item struct {
	Name   string
	Amount int64
}

// Receipt is a best-effort reading of a photo; any field may be empty.
type Receipt struct {
	Merchant       string
	IssuerID       string
	DocumentNumber string
	Amount         int64
	Date           *civil.Date
	Category       string
	PaymentMethod  expense.PaymentMethod
	CardName       string
	Items          []Item
}

type receiptJSON struct {
	Merchant      optString `json:"merchant"`
	RUT           optString `json:"rut"`
	ReceiptNumber optString `json:"receipt_number"`
	Amount        amount    `json:"amount"`
	Date          optString `json:"date"`
	Category      optString `json:"category"`
	PaymentMethod optString `json:"payment_method"`
	CardName      optString `json:"card_name"`
	Items         []struct {
		Name   optString `json:"name"`
		Amount amount    `json:"amount"`
	} `json:"items"`
}

// ExtractReceipt reads receipt or bank-notification fields from an image.
func (c *Client) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	today := c.now().In(c.loc).Format("2006-01-02 15:04")

	raw, err := c.generate(ctx, receiptSystem,
		&genai.Part{Text: fmt.Sprintf(receiptPrompt, today)},
		&genai.Part{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     image,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("extracting receipt: %w", err)
	}

	var parsed receiptJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decoding receipt: %w", err)
	}

	r := &Receipt{
		Merchant:       deref(parsed.Merchant.ptr()),
		IssuerID:       dte.NormalizeRUT(deref(parsed.RUT.ptr())),
		DocumentNumber: deref(parsed.ReceiptNumber.ptr()),
		Date:           parseDate(string(parsed.Date), c.loc),
		Category:       deref(parsed.Category.ptr()),
		CardName:       deref(parsed.CardName.ptr()),
	}

	if parsed.Amount.value != nil && *parsed.Amount.value > 0 {
		r.Amount = *parsed.Amount.value
	}

	if pm, ok := expense.ParsePaymentMethod(string(parsed.PaymentMethod)); ok {
		r.PaymentMethod = pm
	}

	for _, it := range parsed.Items {
		name := deref(it.Name.ptr())
		if name == "" {
			continue
		}

		item := Item{Name: name}
		if it.Amount.value != nil {
			item.Amount = *it.Amount.value
		}

		r.Items = append(r.Items, item)
	}

	slog.Debug("receipt extracted", "merchant", r.Merchant, "amount", r.Amount, "items", len(r.Items))

	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
