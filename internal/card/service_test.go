package card_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gastos/internal/card"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		params    card.CreateParams
		setupMock func(m *card.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: card.CreateParams{UserID: userID, Name: " Visa Santander ", Last4: "1234", ClosingDay: 25, PaymentDay: 5},
			setupMock: func(m *card.MockRepository) {
				m.EXPECT().CreateCard(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *card.Card) error {
						assert.Equal(t, "Visa Santander", c.Name)
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:      "MissingName",
			params:    card.CreateParams{UserID: userID, Name: "  "},
			setupMock: func(*card.MockRepository) {},
			wantErr:   card.ErrInvalidInput,
		},
		{
			name:      "BadLast4",
			params:    card.CreateParams{UserID: userID, Name: "Visa", Last4: "12a4"},
			setupMock: func(*card.MockRepository) {},
			wantErr:   card.ErrInvalidInput,
		},
		{
			name:      "DayOutOfRange",
			params:    card.CreateParams{UserID: userID, Name: "Visa", ClosingDay: 32},
			setupMock: func(*card.MockRepository) {},
			wantErr:   card.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := card.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := card.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_FindByName_Blank(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := card.NewMockRepository(ctrl)

	got, err := card.NewService(repo).FindByName(context.Background(), uuid.New(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Delete_NotOwned(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := card.NewMockRepository(ctrl)

	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().DeleteCard(gomock.Any(), userID, id).Return(card.ErrNotFound)

	err := card.NewService(repo).Delete(context.Background(), userID, id)
	assert.ErrorIs(t, err, card.ErrNotFound)
}
