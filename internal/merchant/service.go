package merchant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCandidates bounds every candidate search.
const MaxCandidates = 5

// minTokenLen is the shortest token kept by the token fallback search.
const minTokenLen = 3

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=merchant
type Repository interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (*Merchant, error)
	FindByIssuerID(ctx context.Context, issuerID string) (*Merchant, error)
	FindByName(ctx context.Context, name string) (*Merchant, error)
	// SearchByName returns merchants whose name contains any of terms
	// (case-insensitive), most specific first, then by insertion order.
	SearchByName(ctx context.Context, terms []string, limit int) ([]*Merchant, error)
	CreateMerchant(ctx context.Context, m *Merchant) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Merchant, error) {
	return s.repo.GetMerchant(ctx, id)
}

// FindCandidates matches term against the catalog. The whole term is tried
// first; when nothing matches, its tokens longer than two characters are
// tried as alternatives, which tolerates store codes and city suffixes.
func (s *Service) FindCandidates(ctx context.Context, term string) ([]*Merchant, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	found, err := s.repo.SearchByName(ctx, []string{term}, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("searching merchants: %w", err)
	}

	if len(found) > 0 {
		return found, nil
	}

	tokens := significantTokens(term)
	if len(tokens) == 0 || (len(tokens) == 1 && tokens[0] == term) {
		return nil, nil
	}

	found, err = s.repo.SearchByName(ctx, tokens, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("searching merchant tokens: %w", err)
	}

	return found, nil
}

func significantTokens(term string) []string {
	var tokens []string

	for _, f := range strings.Fields(term) {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}

	return tokens
}

type ResolveParams struct {
	IssuerID string
	Name     string
	Category string
}

// ResolveOrCreate returns the merchant with the given issuer id, else the one
// named exactly (case-insensitive) like params.Name, else a new entry.
func (s *Service) ResolveOrCreate(ctx context.Context, params ResolveParams) (*Merchant, error) {
	issuerID := strings.TrimSpace(params.IssuerID)
	name := strings.TrimSpace(params.Name)

	if issuerID != "" {
		m, err := s.repo.FindByIssuerID(ctx, issuerID)
		if err == nil {
			return m, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("finding merchant by issuer: %w", err)
		}
	}

	if name != "" {
		m, err := s.repo.FindByName(ctx, name)
		if err == nil {
			return m, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("finding merchant by name: %w", err)
		}
	}

	if name == "" {
		name = UnknownName
	}

	m := &Merchant{
		Name:     name,
		IssuerID: issuerID,
		Category: strings.TrimSpace(params.Category),
	}
	if err := s.repo.CreateMerchant(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}
