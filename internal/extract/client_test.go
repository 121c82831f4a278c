package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/extract"
)

// fakeGenerator replies with text and records the last request.
type fakeGenerator struct {
	text string
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config

	if f.err != nil {
		return nil, f.err
	}

	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

func newClient(t *testing.T, gen extract.Generator) *extract.Client {
	t.Helper()

	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	return extract.NewWithGenerator(gen, extract.Config{Model: "gemini-test", Location: loc})
}

func TestClient_ExtractReceipt(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *extract.Receipt
	}{
		{
			name: "PlainJSON",
			text: `{"merchant":"Lider","rut":"76.123.456-k","receipt_number":"104233","amount":12990,` +
				`"date":"2025-03-14","category":"Supermercado","payment_method":"Credit","card_name":"Visa",` +
				`"items":[{"name":"Pan","amount":"1.990"},{"name":null,"amount":5}]}`,
			want: &extract.Receipt{
				Merchant:       "Lider",
				IssuerID:       "76123456-K",
				DocumentNumber: "104233",
				Amount:         12990,
				Date:           &civil.Date{Year: 2025, Month: 3, Day: 14},
				Category:       "Supermercado",
				PaymentMethod:  expense.PaymentCredit,
				CardName:       "Visa",
				Items:          []extract.Item{{Name: "Pan", Amount: 1990}},
			},
		},
		{
			name: "FencedWithStringAmountAndTimestamp",
			text: "```json\n" + `{"merchant":"Copec","amount":"$25.000","receipt_number":998,` +
				`"date":"2025-03-15T02:30:00.000Z","payment_method":"Débito"}` + "\n```",
			want: &extract.Receipt{
				Merchant:       "Copec",
				DocumentNumber: "998",
				Amount:         25000,
				Date:           &civil.Date{Year: 2025, Month: 3, Day: 14},
				PaymentMethod:  expense.PaymentDebit,
			},
		},
		{
			name: "NullsAndUnknownMethod",
			text: `{"merchant":null,"amount":null,"date":null,"payment_method":"Crypto","items":null}`,
			want: &extract.Receipt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: tt.text}

			got, err := newClient(t, gen).ExtractReceipt(context.Background(), []byte{0xff, 0xd8}, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, "gemini-test", gen.model)
			assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
			require.Len(t, gen.contents, 1)
			require.Len(t, gen.contents[0].Parts, 2)
			assert.Equal(t, "image/jpeg", gen.contents[0].Parts[1].InlineData.MIMEType)
		})
	}
}

func TestClient_ExtractReceipt_Errors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "Transport", gen: &fakeGenerator{err: errors.New("deadline exceeded")}},
		{name: "Empty", gen: &fakeGenerator{text: "  "}},
		{name: "NotJSON", gen: &fakeGenerator{text: "no puedo leer la imagen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newClient(t, tt.gen).ExtractReceipt(context.Background(), []byte("x"), "image/png")
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestClient_InterpretCorrection(t *testing.T) {
	draft := &expense.Expense{
		ID:           uuid.New(),
		Amount:       12990,
		MerchantName: "Lider",
		Category:     "Otros",
		Date:         civil.Date{Year: 2025, Month: 3, Day: 14},
	}

	tests := []struct {
		name string
		text string
		want extract.Correction
	}{
		{
			name: "Card",
			text: `{"card_name":"Visa","payment_method":"Credit"}`,
			want: extract.Correction{CardName: new("Visa"), PaymentMethod: new(expense.PaymentCredit)},
		},
		{
			name: "AmountAndMerchant",
			text: `{"amount":5000,"merchant":"Jumbo"}`,
			want: extract.Correction{Amount: new(int64(5000)), Merchant: new("Jumbo")},
		},
		{
			name: "Nothing",
			text: `{}`,
			want: extract.Correction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: tt.text}

			got, err := newClient(t, gen).InterpretCorrection(context.Background(), draft, "Usa tarjeta Visa")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.IsEmpty(), got.IsEmpty())

			require.Len(t, gen.contents, 1)
			assert.Contains(t, gen.contents[0].Parts[0].Text, `"merchant":"Lider"`)
			assert.Contains(t, gen.contents[0].Parts[0].Text, `Usa tarjeta Visa`)
		})
	}
}
