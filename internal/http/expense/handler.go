package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/card"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type Handler struct {
	svc      *expense.Service
	cards    *card.Service
	loc      *time.Location
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(svc *expense.Service, cards *card.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{
		svc:      svc,
		cards:    cards,
		loc:      loc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseDate(s string) (*civil.Date, bool) {
	if s == "" {
		return nil, true
	}

	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, false
	}

	return &d, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	filter := expense.ListFilter{UserID: u.ID}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		switch st := expense.Status(s); st {
		case expense.StatusPending, expense.StatusConfirmed, expense.StatusRejected:
			filter.Status = &st
		default:
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
	}

	var ok bool
	if filter.StartDate, ok = parseDate(q.Get("start_date")); !ok {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	if filter.EndDate, ok = parseDate(q.Get("end_date")); !ok {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	now := h.now().In(h.loc)
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		year = y
	}

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = time.Month(m)
	}

	summary, err := h.svc.MonthlySummary(r.Context(), u.ID, year, month)
	if err != nil {
		slog.Error("failed to build summary", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*expense.Expense, bool) {
	u, _ := auth.UserFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	e, err := h.svc.GetOwned(r.Context(), u.ID, id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return nil, false
		}

		slog.Error("failed to get expense", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil, false
	}

	return e, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.owned(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	Amount        *int64     `json:"amount,omitempty" validate:"omitempty,min=0"`
	Category      *string    `json:"category,omitempty" validate:"omitempty,min=1,max=64"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	CardID        *uuid.UUID `json:"card_id,omitempty"`
	ClearCard     bool       `json:"clear_card,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u := expense.Update{Amount: req.Amount, ClearCard: req.ClearCard}

	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			http.Error(w, "category must not be blank", http.StatusBadRequest)
			return
		}

		u.Category = &category
	}

	if req.PaymentMethod != nil {
		pm, ok := expense.ParsePaymentMethod(*req.PaymentMethod)
		if !ok {
			http.Error(w, "invalid payment_method", http.StatusBadRequest)
			return
		}

		u.PaymentMethod = &pm
		if pm != expense.PaymentCredit {
			u.ClearCard = true
		}
	}

	if req.CardID != nil && !u.ClearCard {
		c, err := h.cards.Get(r.Context(), e.UserID, *req.CardID)
		if err != nil {
			if errors.Is(err, card.ErrNotFound) {
				http.Error(w, "card not found", http.StatusBadRequest)
				return
			}

			slog.Error("failed to get card", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		u.CardID = &c.ID
		u.PaymentMethod = new(expense.PaymentCredit)
	}

	if err := h.svc.Update(r.Context(), e.ID, u); err != nil {
		if errors.Is(err, expense.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to update expense", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	updated, err := h.svc.Get(r.Context(), e.ID)
	if err != nil {
		slog.Error("failed to reload expense", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(updated))
}
