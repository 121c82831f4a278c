package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"
	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

const correctionSystem = "You are a smart assistant that updates JSON data based on natural language corrections."

const correctionPrompt = `Current expense data: %s
User correction instruction: %q

Update the JSON fields based on the user's instruction.
- Return ONLY the fields that need to be changed in a valid JSON object.
- If the user wants to change amount, return "amount" as integer.
- If merchant, return "merchant".
- If category, return "category".
- If date, return "date" as YYYY-MM-DD.
- If receipt number, return "receipt_number".
- If payment method, return "payment_method" (Debit/Credit/Cash/Transfer).
- If credit card name, return "card_name".
- If nothing should change, return {}.`

// Correction is a sparse set of field updates; nil means unchanged.
type Correction struct {
	Amount         *int64
	Merchant       *string
	Category       *string
	Date           *civil.Date
	DocumentNumber *string
	PaymentMethod  *expense.PaymentMethod
	CardName       *string
}

func (c Correction) IsEmpty() bool {
	return c.Amount == nil && c.Merchant == nil && c.Category == nil && c.Date == nil &&
		c.DocumentNumber == nil && c.PaymentMethod == nil && c.CardName == nil
}

type draftJSON struct {
	Merchant      string `json:"merchant"`
	Amount        int64  `json:"amount"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	CardName      string `json:"card_name,omitempty"`
}

type correctionJSON struct {
	Amount        amount    `json:"amount"`
	Merchant      optString `json:"merchant"`
	Category      optString `json:"category"`
	Date          optString `json:"date"`
	ReceiptNumber optString `json:"receipt_number"`
	PaymentMethod optString `json:"payment_method"`
	CardName      optString `json:"card_name"`
}

// InterpretCorrection turns free text such as "Usa tarjeta Visa" into field
// updates against draft.
func (c *Client) InterpretCorrection(ctx context.Context, draft *expense.Expense, text string) (Correction, error) {
	current := draftJSON{
		Merchant:      draft.DisplayMerchant(),
		Amount:        draft.Amount,
		Category:      draft.Category,
		Date:          draft.Date.String(),
		ReceiptNumber: draft.DocumentNumber,
	}

	if draft.PaymentMethod != "" {
		current.PaymentMethod = string(draft.PaymentMethod)
	}

	if draft.Card != nil {
		current.CardName = draft.Card.Name
	}

	payload, err := json.Marshal(current)
	if err != nil {
		return Correction{}, fmt.Errorf("encoding draft: %w", err)
	}

	raw, err := c.generate(ctx, correctionSystem, &genai.Part{Text: fmt.Sprintf(correctionPrompt, payload, text)})
	if err != nil {
		return Correction{}, fmt.Errorf("interpreting correction: %w", err)
	}

	var parsed correctionJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Correction{}, fmt.Errorf("decoding correction: %w", err)
	}

	corr := Correction{
		Amount:         parsed.Amount.value,
		Merchant:       parsed.Merchant.ptr(),
		Category:       parsed.Category.ptr(),
		Date:           parseDate(string(parsed.Date), c.loc),
		DocumentNumber: parsed.ReceiptNumber.ptr(),
		CardName:       parsed.CardName.ptr(),
	}

	if pm, ok := expense.ParsePaymentMethod(string(parsed.PaymentMethod)); ok {
		corr.PaymentMethod = &pm
	}

	return corr, nil
}
