package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/florinmsk/shop-api/internal/user"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// TokenStore defines the access token registry.
type TokenStore interface {
	Store(ctx context.Context, token *Token) error
	GetByID(ctx context.Context, id uuid.UUID) (*Token, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}
