package expense

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	// CreatePending stores e as the user's only pending draft, rejecting any
	// older pending drafts in the same transaction.
	CreatePending(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	// FindPending returns the user's most recently created pending draft.
	FindPending(ctx context.Context, userID uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, u Update) error
	// TransitionStatus moves id from one status to another and reports
	// whether a row changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID         uuid.UUID
	Amount         int64
	MerchantName   string
	MerchantID     *uuid.UUID
	Category       string
	Date           civil.Date
	DocumentNumber string
	PaymentMethod  PaymentMethod
	CardID         *uuid.UUID
}

// Update is a sparse patch; nil fields are left untouched.
type Update struct {
	Amount         *int64
	MerchantName   *string
	MerchantID     *uuid.UUID
	ClearMerchant  bool
	Category       *string
	Date           *civil.Date
	DocumentNumber *string
	PaymentMethod  *PaymentMethod
	CardID         *uuid.UUID
	ClearCard      bool

	// OnlyPending leaves confirmed and rejected expenses untouched; the
	// update then fails with ErrNotFound.
	OnlyPending bool
}

func (u Update) IsEmpty() bool {
	return u.Amount == nil && u.MerchantName == nil && u.MerchantID == nil && !u.ClearMerchant &&
		u.Category == nil && u.Date == nil && u.DocumentNumber == nil &&
		u.PaymentMethod == nil && u.CardID == nil && !u.ClearCard
}

type ListFilter struct {
	UserID    uuid.UUID
	Status    *Status
	StartDate *civil.Date
	EndDate   *civil.Date
	// ExcludeCard drops purchases paid with a credit card.
	ExcludeCard bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if params.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = DefaultCategory
	}

	e := &Expense{
		UserID:         params.UserID,
		Amount:         params.Amount,
		MerchantName:   params.MerchantName,
		MerchantID:     params.MerchantID,
		Category:       category,
		Date:           params.Date,
		DocumentNumber: params.DocumentNumber,
		PaymentMethod:  params.PaymentMethod,
		CardID:         params.CardID,
		Status:         StatusPending,
	}
	if err := s.repo.CreatePending(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Pending(ctx context.Context, userID uuid.UUID) (*Expense, error) {
	return s.repo.FindPending(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// GetOwned hides other users' expenses behind ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, userID, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.UserID != userID {
		return nil, ErrNotFound
	}

	return e, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, u Update) error {
	if u.Amount != nil && *u.Amount < 0 {
		return ErrInvalidAmount
	}

	if u.IsEmpty() {
		return nil
	}

	return s.repo.UpdateExpense(ctx, id, u)
}

// Confirm reports false when the draft was no longer pending.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.TransitionStatus(ctx, id, StatusPending, StatusConfirmed)
}

// Reject reports false when the draft was no longer pending.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.TransitionStatus(ctx, id, StatusPending, StatusRejected)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

type CategoryTotal struct {
	Category string
	Total    int64
	Count    int
}

type DaySummary struct {
	Date       civil.Date
	Total      int64
	Categories []CategoryTotal
}

// Summary is a month of confirmed spending paid without a credit card.
type Summary struct {
	Year  int
	Month time.Month
	Total int64
	Days  []DaySummary
}

// MonthlySummary groups confirmed, non-card expenses by date then category.
// Card purchases are billed later and so are left out of the month's cash flow.
func (s *Service) MonthlySummary(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*Summary, error) {
	start := civil.Date{Year: year, Month: month, Day: 1}
	end := civil.DateOf(start.In(time.UTC).AddDate(0, 1, -1))
	status := StatusConfirmed

	expenses, err := s.repo.ListExpenses(ctx, ListFilter{
		UserID:      userID,
		Status:      &status,
		StartDate:   &start,
		EndDate:     &end,
		ExcludeCard: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing month: %w", err)
	}

	return summarize(year, month, expenses), nil
}

func summarize(year int, month time.Month, expenses []*Expense) *Summary {
	type key struct {
		date     civil.Date
		category string
	}

	totals := make(map[key]*CategoryTotal)
	days := make(map[civil.Date]int64)

	sum := &Summary{Year: year, Month: month}

	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = DefaultCategory
		}

		k := key{date: e.Date, category: category}

		ct, ok := totals[k]
		if !ok {
			ct = &CategoryTotal{Category: category}
			totals[k] = ct
		}

		ct.Total += e.Amount
		ct.Count++
		days[e.Date] += e.Amount
		sum.Total += e.Amount
	}

	for d, total := range days {
		sum.Days = append(sum.Days, DaySummary{Date: d, Total: total})
	}

	slices.SortFunc(sum.Days, func(a, b DaySummary) int { return compareDates(a.Date, b.Date) })

	for i := range sum.Days {
		day := &sum.Days[i]

		for k, ct := range totals {
			if k.date == day.Date {
				day.Categories = append(day.Categories, *ct)
			}
		}

		slices.SortFunc(day.Categories, func(a, b CategoryTotal) int { return cmp.Compare(a.Category, b.Category) })
	}

	return sum
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}

	return 0
}
