package bot_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/card"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
)

// memMerchants is an in-memory merchant.Repository keeping insertion order.
type memMerchants struct {
	mu    sync.Mutex
	items []*merchant.Merchant
}

func (r *memMerchants) add(name, issuerID, category string) *merchant.Merchant {
	m := &merchant.Merchant{Name: name, IssuerID: issuerID, Category: category}
	_ = r.CreateMerchant(context.Background(), m)

	return m
}

func (r *memMerchants) byID(id uuid.UUID) *merchant.Merchant {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.items {
		if m.ID == id {
			return m
		}
	}

	return nil
}

func (r *memMerchants) GetMerchant(_ context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	if m := r.byID(id); m != nil {
		return m, nil
	}

	return nil, merchant.ErrNotFound
}

func (r *memMerchants) FindByIssuerID(_ context.Context, issuerID string) (*merchant.Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.items {
		if m.IssuerID != "" && m.IssuerID == issuerID {
			return m, nil
		}
	}

	return nil, merchant.ErrNotFound
}

func (r *memMerchants) FindByName(_ context.Context, name string) (*merchant.Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.items {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}

	return nil, merchant.ErrNotFound
}

func (r *memMerchants) SearchByName(_ context.Context, terms []string, limit int) ([]*merchant.Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type hit struct {
		m    *merchant.Merchant
		hits int
	}

	var found []hit

	for _, m := range r.items {
		n := 0

		for _, t := range terms {
			if strings.Contains(strings.ToLower(m.Name), strings.ToLower(t)) {
				n++
			}
		}

		if n > 0 {
			found = append(found, hit{m: m, hits: n})
		}
	}

	slices.SortStableFunc(found, func(a, b hit) int { return cmp.Compare(b.hits, a.hits) })

	var out []*merchant.Merchant
	for _, h := range found {
		if len(out) == limit {
			break
		}

		out = append(out, h.m)
	}

	return out, nil
}

func (r *memMerchants) CreateMerchant(_ context.Context, m *merchant.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.items = append(r.items, m)

	return nil
}

// memCards is an in-memory card.Repository.
type memCards struct {
	mu    sync.Mutex
	items []*card.Card
}

func (r *memCards) add(userID uuid.UUID, names ...string) {
	for _, n := range names {
		_ = r.CreateCard(context.Background(), &card.Card{UserID: userID, Name: n})
	}
}

func (r *memCards) byID(id uuid.UUID) *card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		if c.ID == id {
			return c
		}
	}

	return nil
}

func (r *memCards) CreateCard(_ context.Context, c *card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.New()
	r.items = append(r.items, c)

	return nil
}

func (r *memCards) GetCard(_ context.Context, userID, id uuid.UUID) (*card.Card, error) {
	if c := r.byID(id); c != nil && c.UserID == userID {
		return c, nil
	}

	return nil, card.ErrNotFound
}

func (r *memCards) ListCards(_ context.Context, userID uuid.UUID) ([]*card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*card.Card

	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *memCards) FindByName(ctx context.Context, userID uuid.UUID, name string) ([]*card.Card, error) {
	all, _ := r.ListCards(ctx, userID)

	var out []*card.Card

	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *memCards) DeleteCard(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.items {
		if c.ID == id && c.UserID == userID {
			r.items = slices.Delete(r.items, i, i+1)
			return nil
		}
	}

	return card.ErrNotFound
}

// memExpenses is an in-memory expense.Repository that counts writes.
type memExpenses struct {
	mu        sync.Mutex
	rows      []*expense.Expense
	writes    int
	merchants *memMerchants
	cards     *memCards
	clock     time.Time
}

func (r *memExpenses) joined(e *expense.Expense) *expense.Expense {
	cp := *e
	cp.Merchant, cp.Card = nil, nil

	if e.MerchantID != nil {
		if m := r.merchants.byID(*e.MerchantID); m != nil {
			cp.Merchant = &expense.Merchant{ID: m.ID, Name: m.Name, IssuerID: m.IssuerID}
		}
	}

	if e.CardID != nil {
		if c := r.cards.byID(*e.CardID); c != nil {
			cp.Card = &expense.Card{ID: c.ID, Name: c.Name}
		}
	}

	return &cp
}

func (r *memExpenses) find(id uuid.UUID) *expense.Expense {
	for _, e := range r.rows {
		if e.ID == id {
			return e
		}
	}

	return nil
}

func (r *memExpenses) CreatePending(_ context.Context, e *expense.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, old := range r.rows {
		if old.UserID == e.UserID && old.Status == expense.StatusPending {
			old.Status = expense.StatusRejected
		}
	}

	r.clock = r.clock.Add(time.Second)
	e.ID = uuid.New()
	e.CreatedAt, e.UpdatedAt = r.clock, r.clock

	cp := *e
	r.rows = append(r.rows, &cp)
	r.writes++

	return nil
}

func (r *memExpenses) GetExpense(_ context.Context, id uuid.UUID) (*expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.find(id); e != nil {
		return r.joined(e), nil
	}

	return nil, expense.ErrNotFound
}

func (r *memExpenses) FindPending(_ context.Context, userID uuid.UUID) (*expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *expense.Expense

	for _, e := range r.rows {
		if e.UserID == userID && e.Status == expense.StatusPending &&
			(latest == nil || e.CreatedAt.After(latest.CreatedAt)) {
			latest = e
		}
	}

	if latest == nil {
		return nil, expense.ErrNotFound
	}

	return r.joined(latest), nil
}

func (r *memExpenses) UpdateExpense(_ context.Context, id uuid.UUID, u expense.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.find(id)
	if e == nil || (u.OnlyPending && e.Status != expense.StatusPending) {
		return expense.ErrNotFound
	}

	if u.Amount != nil {
		e.Amount = *u.Amount
	}

	if u.MerchantName != nil {
		e.MerchantName = *u.MerchantName
	}

	switch {
	case u.MerchantID != nil:
		e.MerchantID = new(*u.MerchantID)
	case u.ClearMerchant:
		e.MerchantID = nil
	}

	if u.Category != nil {
		e.Category = *u.Category
	}

	if u.Date != nil {
		e.Date = *u.Date
	}

	if u.DocumentNumber != nil {
		e.DocumentNumber = *u.DocumentNumber
	}

	if u.PaymentMethod != nil {
		e.PaymentMethod = *u.PaymentMethod
	}

	switch {
	case u.CardID != nil:
		e.CardID = new(*u.CardID)
	case u.ClearCard:
		e.CardID = nil
	}

	r.writes++

	return nil
}

func (r *memExpenses) TransitionStatus(_ context.Context, id uuid.UUID, from, to expense.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.find(id)
	if e == nil || e.Status != from {
		return false, nil
	}

	e.Status = to
	r.writes++

	return true, nil
}

func (r *memExpenses) ListExpenses(_ context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*expense.Expense

	for _, e := range r.rows {
		if e.UserID == filter.UserID && (filter.Status == nil || e.Status == *filter.Status) {
			out = append(out, r.joined(e))
		}
	}

	return out, nil
}

func (r *memExpenses) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writes
}
