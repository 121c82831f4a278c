package expense

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type expenseResponse struct {
	ID             uuid.UUID             `json:"id"`
	Amount         int64                 `json:"amount"`
	Merchant       string                `json:"merchant"`
	MerchantID     *uuid.UUID            `json:"merchant_id,omitempty"`
	IssuerID       string                `json:"issuer_id,omitempty"`
	Category       string                `json:"category"`
	Date           civil.Date            `json:"date"`
	DocumentNumber string                `json:"document_number,omitempty"`
	PaymentMethod  expense.PaymentMethod `json:"payment_method,omitempty"`
	Card           *cardResponse         `json:"card,omitempty"`
	Status         expense.Status        `json:"status"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type cardResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toResponse(e *expense.Expense) expenseResponse {
	resp := expenseResponse{
		ID:             e.ID,
		Amount:         e.Amount,
		Merchant:       e.DisplayMerchant(),
		MerchantID:     e.MerchantID,
		IssuerID:       e.IssuerID(),
		Category:       e.Category,
		Date:           e.Date,
		DocumentNumber: e.DocumentNumber,
		PaymentMethod:  e.PaymentMethod,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	if e.Card != nil {
		resp.Card = &cardResponse{ID: e.Card.ID, Name: e.Card.Name}
	}

	return resp
}

func toResponseList(expenses []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}

type categoryResponse struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Count    int    `json:"count"`
}

type dayResponse struct {
	Date       civil.Date         `json:"date"`
	Total      int64              `json:"total"`
	Categories []categoryResponse `json:"categories"`
}

type summaryResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Total int64         `json:"total"`
	Days  []dayResponse `json:"days"`
}

func toSummaryResponse(s *expense.Summary) summaryResponse {
	resp := summaryResponse{
		Year:  s.Year,
		Month: int(s.Month),
		Total: s.Total,
		Days:  make([]dayResponse, len(s.Days)),
	}

	for i, d := range s.Days {
		day := dayResponse{Date: d.Date, Total: d.Total, Categories: make([]categoryResponse, len(d.Categories))}
		for j, c := range d.Categories {
			day.Categories[j] = categoryResponse{Category: c.Category, Total: c.Total, Count: c.Count}
		}

		resp.Days[i] = day
	}

	return resp
}
