package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/merchant"
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

// Expected column order: id, name, issuer_id, category, created_at
func scanMerchant(s scanner) (*merchant.Merchant, error) {
	var (
		m                  merchant.Merchant
		issuerID, category sql.NullString
	)

	if err := s.Scan(&m.ID, &m.Name, &issuerID, &category, &m.CreatedAt); err != nil {
		return nil, err
	}

	m.IssuerID = issuerID.String
	m.Category = category.String

	return &m, nil
}

const selectMerchantColumns = `m.id, m.name, m.issuer_id, m.category, m.created_at`

func (s *Store) GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	query := `SELECT ` + selectMerchantColumns + ` FROM merchants m WHERE m.id = $1`

	return s.one(ctx, "getting merchant", query, id)
}

func (s *Store) FindByIssuerID(ctx context.Context, issuerID string) (*merchant.Merchant, error) {
	query := `SELECT ` + selectMerchantColumns + ` FROM merchants m WHERE m.issuer_id = $1`

	return s.one(ctx, "finding merchant by issuer", query, issuerID)
}

func (s *Store) FindByName(ctx context.Context, name string) (*merchant.Merchant, error) {
	query := `SELECT ` + selectMerchantColumns + `
		FROM merchants m
		WHERE lower(m.name) = lower($1)
		ORDER BY m.seq ASC
		LIMIT 1`

	return s.one(ctx, "finding merchant by name", query, name)
}

func (s *Store) one(ctx context.Context, op, query string, args ...any) (*merchant.Merchant, error) {
	m, err := scanMerchant(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, merchant.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

// SearchByName ranks merchants by how many terms they contain, then exact
// name matches, then prefix matches, then insertion order.
func (s *Store) SearchByName(ctx context.Context, terms []string, limit int) ([]*merchant.Merchant, error) {
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	contains := make([]string, len(terms))
	prefixes := make([]string, len(terms))
	exact := make([]string, len(terms))

	for i, t := range terms {
		contains[i] = ContainsPattern(t)
		prefixes[i] = PrefixPattern(t)
		exact[i] = strings.ToLower(t)
	}

	query := `SELECT ` + selectMerchantColumns + `
		FROM merchants m,
		LATERAL (SELECT count(*) AS hits FROM unnest($1::text[]) p WHERE m.name ILIKE p) h
		WHERE m.name ILIKE ANY($1::text[])
		ORDER BY h.hits DESC,
			(lower(m.name) = ANY($2::text[])) DESC,
			(m.name ILIKE ANY($3::text[])) DESC,
			m.seq ASC
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, contains, exact, prefixes, limit)
	if err != nil {
		return nil, fmt.Errorf("searching merchants: %w", err)
	}
	defer rows.Close()

	var found []*merchant.Merchant

	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning merchant: %w", err)
		}

		found = append(found, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating merchant rows: %w", err)
	}

	return found, nil
}

// CreateMerchant inserts m, or returns the existing row when the issuer id is
// already known.
func (s *Store) CreateMerchant(ctx context.Context, m *merchant.Merchant) error {
	query := `
		INSERT INTO merchants (name, issuer_id, category, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NOW())
		ON CONFLICT (issuer_id) DO UPDATE SET issuer_id = EXCLUDED.issuer_id
		RETURNING id, name, COALESCE(category, ''), created_at
	`

	err := s.db.QueryRowContext(ctx, query, m.Name, m.IssuerID, m.Category).
		Scan(&m.ID, &m.Name, &m.Category, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating merchant: %w", err)
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching term anywhere, with
// wildcards in term taken literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// PrefixPattern builds an ILIKE pattern matching names starting with term.
func PrefixPattern(term string) string {
	return likeEscaper.Replace(term) + "%"
}
