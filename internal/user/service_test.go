package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gastos/internal/user"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "+56 9 1234 5678", want: "56912345678"},
		{in: "56912345678", want: "56912345678"},
		{in: "(+56) 9-1234-5678", want: "56912345678"},
		{in: "local", want: "local"},
		{in: " + ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, user.NormalizePhone(tt.in))
		})
	}
}

func TestService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)

	id := uuid.New()
	repo.EXPECT().UpsertUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, "56912345678", u.PhoneNumber)
			u.ID = id
			return nil
		})

	got, err := user.NewService(repo).Resolve(context.Background(), "+56 9 1234 5678", " Ana ")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Ana", got.Name)
}

func TestService_Resolve_EmptyPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)

	_, err := user.NewService(repo).Resolve(context.Background(), "+", "")
	assert.ErrorIs(t, err, user.ErrInvalidPhone)
}
