package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/user"
)

const secret = "test-secret"

func TestAllowList(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		phone   string
		want    bool
	}{
		{name: "empty list allows everyone", numbers: nil, phone: "56911111111", want: true},
		{name: "listed number", numbers: []string{"+56 9 1111 1111"}, phone: "56911111111", want: true},
		{name: "formatting ignored", numbers: []string{"56911111111"}, phone: "+56-9-1111-1111", want: true},
		{name: "unlisted number", numbers: []string{"56911111111"}, phone: "56922222222", want: false},
		{name: "blank entries ignored", numbers: []string{" ", "56911111111"}, phone: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.NewAllowList(tt.numbers).Allowed(tt.phone))
		})
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := auth.NewTokens(secret, time.Hour)
	require.NoError(t, err)

	raw, err := tokens.Issue("+56 9 1234 5678", "Ana")
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "56912345678", claims.Phone())
	assert.Equal(t, "Ana", claims.Name)
	require.NotNil(t, claims.ExpiresAt)
}

func TestTokens_Errors(t *testing.T) {
	_, err := auth.NewTokens("", time.Hour)
	require.ErrorIs(t, err, auth.ErrNoSecret)

	tokens, err := auth.NewTokens(secret, 0)
	require.NoError(t, err)

	_, err = tokens.Issue(" - ", "")
	require.ErrorIs(t, err, user.ErrInvalidPhone)

	other, err := auth.NewTokens("another-secret", 0)
	require.NoError(t, err)

	forged, err := other.Issue("56912345678", "")
	require.NoError(t, err)

	_, err = tokens.Verify(forged)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gastos",
			Subject:   "56912345678",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = tokens.Verify(expired)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = tokens.Verify("not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

type fakeUsers struct {
	err   error
	calls int
}

func (f *fakeUsers) Resolve(_ context.Context, phone, name string) (*user.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return &user.User{ID: uuid.New(), PhoneNumber: phone, Name: name}, nil
}

func TestMiddleware(t *testing.T) {
	tokens, err := auth.NewTokens(secret, time.Hour)
	require.NoError(t, err)

	allowed, err := tokens.Issue("56911111111", "Ana")
	require.NoError(t, err)

	blocked, err := tokens.Issue("56922222222", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		usersErr error
		want     int
		wantUser bool
	}{
		{
			name:  "missing token",
			setup: func(*http.Request) {},
			want:  http.StatusUnauthorized,
		},
		{
			name:  "garbage token",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "wrong scheme",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Basic "+allowed) },
			want:  http.StatusUnauthorized,
		},
		{
			name:  "number not on allow list",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+blocked) },
			want:  http.StatusForbidden,
		},
		{
			name:     "user lookup fails",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+allowed) },
			usersErr: errors.New("db down"),
			want:     http.StatusInternalServerError,
		},
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+allowed) },
			want:     http.StatusOK,
			wantUser: true,
		},
		{
			name: "query parameter",
			setup: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", allowed)
				r.URL.RawQuery = q.Encode()
			},
			want:     http.StatusOK,
			wantUser: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{err: tt.usersErr}

			var got *user.User

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.UserFromContext(r.Context())
			})

			h := auth.Middleware(tokens, auth.NewAllowList([]string{"56911111111"}), users)(next)

			req := httptest.NewRequest(http.MethodGet, "/chat", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			if tt.wantUser {
				require.NotNil(t, got)
				assert.Equal(t, "56911111111", got.PhoneNumber)
				assert.Equal(t, "Ana", got.Name)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	_, ok := auth.UserFromContext(context.Background())
	assert.False(t, ok)
}
