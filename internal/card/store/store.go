package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/card"
	mstore "github.com/MrJamesThe3rd/gastos/internal/merchant/store"
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

const selectCardColumns = `id, user_id, name, last4, closing_day, payment_day, created_at`

func scanCard(s scanner) (*card.Card, error) {
	var c card.Card

	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Last4, &c.ClosingDay, &c.PaymentDay, &c.CreatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) CreateCard(ctx context.Context, c *card.Card) error {
	query := `
		INSERT INTO credit_cards (user_id, name, last4, closing_day, payment_day, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Last4, c.ClosingDay, c.PaymentDay).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}

	return nil
}

func (s *Store) GetCard(ctx context.Context, userID, id uuid.UUID) (*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM credit_cards WHERE id = $1 AND user_id = $2`

	c, err := scanCard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, card.ErrNotFound
		}

		return nil, fmt.Errorf("getting card: %w", err)
	}

	return c, nil
}

func (s *Store) ListCards(ctx context.Context, userID uuid.UUID) ([]*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM credit_cards WHERE user_id = $1 ORDER BY name ASC, created_at ASC`

	return s.list(ctx, "listing cards", query, userID)
}

func (s *Store) FindByName(ctx context.Context, userID uuid.UUID, name string) ([]*card.Card, error) {
	query := `SELECT ` + selectCardColumns + `
		FROM credit_cards
		WHERE user_id = $1 AND name ILIKE $2
		ORDER BY created_at ASC`

	return s.list(ctx, "finding cards", query, userID, mstore.ContainsPattern(name))
}

func (s *Store) list(ctx context.Context, op, query string, args ...any) ([]*card.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cards []*card.Card

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}

		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}

	return cards, nil
}

func (s *Store) DeleteCard(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credit_cards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	if n == 0 {
		return card.ErrNotFound
	}

	return nil
}
