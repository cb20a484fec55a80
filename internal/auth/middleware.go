package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/florinmsk/shop-api/internal/httputil"
	"github.com/florinmsk/shop-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	userContextKey  ContextKey = "current_user"
	tokenContextKey ContextKey = "current_token_id"
)

// Middleware gates protected routes behind bearer token resolution.
type Middleware struct {
	service *Service
}

func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth resolves the bearer token on every request and injects the
// authenticated user and the presenting token id into the request context.
// Missing, malformed, unknown and revoked tokens are rejected identically.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondUnauthorized(w, "User not authenticated.")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondUnauthorized(w, "User not authenticated.")
			return
		}

		currentUser, token, err := m.service.ResolveToken(r.Context(), parts[1])
		if err != nil {
			httputil.RespondUnauthorized(w, "User not authenticated.")
			return
		}

		ctx := ContextWithUser(r.Context(), currentUser)
		ctx = context.WithValue(ctx, tokenContextKey, token.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userContextKey).(*user.User)
	return u, ok
}

// TokenIDFromContext extracts the id of the token that authenticated the
// current request.
func TokenIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tokenContextKey).(uuid.UUID)
	return id, ok
}
