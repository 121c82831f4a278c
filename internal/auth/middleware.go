package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/gastos/internal/user"
)

type UserResolver interface {
	Resolve(ctx context.Context, phone, name string) (*user.User, error)
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok && u != nil
}

// Middleware authenticates the bearer token, checks the phone number against
// authz and stores the resolved user in the request context. Browsers cannot
// set headers on websocket upgrades, so a token query parameter is accepted too.
func Middleware(tokens *Tokens, authz Authorizer, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if !authz.Allowed(claims.Phone()) {
				slog.Warn("rejected unauthorized number", "phone", claims.Phone())
				http.Error(w, "number not authorized", http.StatusForbidden)

				return
			}

			u, err := users.Resolve(r.Context(), claims.Phone(), claims.Name)
			if err != nil {
				slog.Error("failed to resolve user", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	return r.URL.Query().Get("token")
}
