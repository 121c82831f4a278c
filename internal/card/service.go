package card

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=card
type Repository interface {
	CreateCard(ctx context.Context, c *Card) error
	GetCard(ctx context.Context, userID, id uuid.UUID) (*Card, error)
	ListCards(ctx context.Context, userID uuid.UUID) ([]*Card, error)
	// FindByName returns the user's cards whose name contains name, case-insensitive.
	FindByName(ctx context.Context, userID uuid.UUID, name string) ([]*Card, error)
	DeleteCard(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID     uuid.UUID
	Name       string
	Last4      string
	ClosingDay int
	PaymentDay int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Card, error) {
	c := &Card{
		UserID:     params.UserID,
		Name:       strings.TrimSpace(params.Name),
		Last4:      strings.TrimSpace(params.Last4),
		ClosingDay: params.ClosingDay,
		PaymentDay: params.PaymentDay,
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCard(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func validate(c *Card) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if c.Last4 != "" && (len(c.Last4) != 4 || strings.IndexFunc(c.Last4, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0) {
		return fmt.Errorf("%w: last4 must be four digits", ErrInvalidInput)
	}

	for _, day := range []int{c.ClosingDay, c.PaymentDay} {
		if day < 0 || day > 31 {
			return fmt.Errorf("%w: day %d out of range", ErrInvalidInput, day)
		}
	}

	return nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Card, error) {
	return s.repo.GetCard(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Card, error) {
	return s.repo.ListCards(ctx, userID)
}

func (s *Service) FindByName(ctx context.Context, userID uuid.UUID, name string) ([]*Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	return s.repo.FindByName(ctx, userID, name)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteCard(ctx, userID, id)
}
