package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertUser keeps the stored name unless a non-empty one is supplied.
func (s *Store) UpsertUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (phone_number, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (phone_number) DO UPDATE
			SET name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name)
		RETURNING id, name, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, u.PhoneNumber, u.Name).Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.one(ctx, `SELECT id, phone_number, name, created_at FROM users WHERE id = $1`, id)
}

func (s *Store) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	return s.one(ctx, `SELECT id, phone_number, name, created_at FROM users WHERE phone_number = $1`, phone)
}

func (s *Store) one(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User

	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.PhoneNumber, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}
