package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/florinmsk/shop-api/internal/database"
)

var ErrTokenNotFound = errors.New("access token not found")

// Repository handles access token persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Store persists a new access token record.
func (r *Repository) Store(ctx context.Context, token *Token) error {
	dbToken := &database.AccessToken{
		ID:        token.ID,
		UserID:    token.UserID,
		Name:      token.Name,
		TokenHash: token.TokenHash,
		CreatedAt: token.CreatedAt,
	}

	_, err := r.db.NewInsert().
		Model(dbToken).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	return nil
}

// GetByID retrieves an access token by its identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	dbToken := new(database.AccessToken)
	err := r.db.NewSelect().
		Model(dbToken).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return mapDBTokenToModel(dbToken), nil
}

// Delete removes one token record. Deleting an absent token is not an
// error: revocation is idempotent.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.AccessToken)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every token owned by the user in one statement,
// so concurrent resolves see either all tokens or none.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.AccessToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return nil
}

// TouchLastUsed stamps last_used_at on a resolved token.
func (r *Repository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*database.AccessToken)(nil)).
		Set("last_used_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to touch access token: %w", err)
	}

	return nil
}

// mapDBTokenToModel converts database model to domain model
func mapDBTokenToModel(dbt *database.AccessToken) *Token {
	return &Token{
		ID:         dbt.ID,
		UserID:     dbt.UserID,
		Name:       dbt.Name,
		TokenHash:  dbt.TokenHash,
		LastUsedAt: dbt.LastUsedAt,
		CreatedAt:  dbt.CreatedAt,
	}
}
