package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row joined with its merchant and card.
// Expected column order matches selectExpenseColumns.
func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e                    expense.Expense
		merchantID, cardID   *uuid.UUID
		merchantName, issuer sql.NullString
		cardName             sql.NullString
		date                 time.Time
		method, status       string
	)

	if err := s.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.MerchantName,
		&merchantID, &merchantName, &issuer,
		&e.Category, &date, &e.DocumentNumber, &method,
		&cardID, &cardName,
		&status, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Date = civil.DateOf(date)
	e.PaymentMethod = expense.PaymentMethod(method)
	e.Status = expense.Status(status)
	e.MerchantID = merchantID
	e.CardID = cardID

	if merchantID != nil && merchantName.Valid {
		e.Merchant = &expense.Merchant{ID: *merchantID, Name: merchantName.String, IssuerID: issuer.String}
	}

	if cardID != nil && cardName.Valid {
		e.Card = &expense.Card{ID: *cardID, Name: cardName.String}
	}

	return &e, nil
}

const selectExpenseColumns = `
	e.id, e.user_id, e.amount, e.merchant,
	e.merchant_id, m.name, m.issuer_id,
	e.category, e.date, e.document_number, e.payment_method,
	e.card_id, c.name,
	e.status, e.created_at, e.updated_at
`

const fromExpenses = `
	FROM expenses e
	LEFT JOIN merchants m ON e.merchant_id = m.id
	LEFT JOIN credit_cards c ON e.card_id = c.id
`

func draftLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("draft"))
	h.Write([]byte{0})
	h.Write(userID[:])

	return int64(h.Sum64())
}

// CreatePending serializes draft creation per user with an advisory lock so
// at most one pending draft survives.
func (s *Store) CreatePending(ctx context.Context, e *expense.Expense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning draft tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", draftLockKey(e.UserID)); err != nil {
		return fmt.Errorf("acquiring draft lock: %w", err)
	}

	supersede := `
		UPDATE expenses
		SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND status = $3
	`
	if _, err := dbTx.ExecContext(ctx, supersede, expense.StatusRejected, e.UserID, expense.StatusPending); err != nil {
		return fmt.Errorf("superseding drafts: %w", err)
	}

	insert := `
		INSERT INTO expenses (user_id, amount, merchant, merchant_id, category, date,
			document_number, payment_method, card_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, insert,
		e.UserID,
		e.Amount,
		e.MerchantName,
		e.MerchantID,
		e.Category,
		e.Date.String(),
		e.DocumentNumber,
		e.PaymentMethod,
		e.CardID,
		e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating draft: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing draft: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + fromExpenses + ` WHERE e.id = $1`

	return s.one(ctx, "getting expense", query, id)
}

func (s *Store) FindPending(ctx context.Context, userID uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + fromExpenses + `
		WHERE e.user_id = $1 AND e.status = $2
		ORDER BY e.created_at DESC
		LIMIT 1`

	return s.one(ctx, "finding pending expense", query, userID, expense.StatusPending)
}

func (s *Store) one(ctx context.Context, op, query string, args ...any) (*expense.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, id uuid.UUID, u expense.Update) error {
	var (
		sets []string
		args []any
	)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Amount != nil {
		set("amount", *u.Amount)
	}

	if u.MerchantName != nil {
		set("merchant", *u.MerchantName)
	}

	switch {
	case u.MerchantID != nil:
		set("merchant_id", *u.MerchantID)
	case u.ClearMerchant:
		sets = append(sets, "merchant_id = NULL")
	}

	if u.Category != nil {
		set("category", *u.Category)
	}

	if u.Date != nil {
		args = append(args, u.Date.String())
		sets = append(sets, fmt.Sprintf("date = $%d::date", len(args)))
	}

	if u.DocumentNumber != nil {
		set("document_number", *u.DocumentNumber)
	}

	if u.PaymentMethod != nil {
		set("payment_method", *u.PaymentMethod)
	}

	switch {
	case u.CardID != nil:
		set("card_id", *u.CardID)
	case u.ClearCard:
		sets = append(sets, "card_id = NULL")
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE expenses SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	if u.OnlyPending {
		args = append(args, expense.StatusPending)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) TransitionStatus(ctx context.Context, id uuid.UUID, from, to expense.Status) (bool, error) {
	query := `
		UPDATE expenses
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating status: %w", err)
	}

	return n > 0, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + fromExpenses + ` WHERE e.user_id = $1`

	args := []any{filter.UserID}
	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND e.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d::date", argIdx)

		args = append(args, filter.StartDate.String())
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d::date", argIdx)

		args = append(args, filter.EndDate.String())
	}

	if filter.ExcludeCard {
		query += " AND e.card_id IS NULL"
	}

	query += " ORDER BY e.date DESC, e.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}
