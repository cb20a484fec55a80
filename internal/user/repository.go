package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/florinmsk/shop-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// DefaultRole is the lowest-privilege role assigned to new registrations.
const DefaultRole = "user"

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database with the default role.
func (r *Repository) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	now := time.Now()
	dbUser := &database.User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// TouchLastLogin stamps last_login_at and returns the new timestamp.
func (r *Repository) TouchLastLogin(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	now := time.Now()
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("last_login_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return time.Time{}, ErrNotFound
	}

	return now, nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:              dbu.ID,
		FirstName:       dbu.FirstName,
		LastName:        dbu.LastName,
		Email:           dbu.Email,
		PasswordHash:    dbu.PasswordHash,
		Role:            dbu.Role,
		Avatar:          dbu.Avatar,
		EmailVerifiedAt: dbu.EmailVerifiedAt,
		LastLoginAt:     dbu.LastLoginAt,
		CreatedAt:       dbu.CreatedAt,
		UpdatedAt:       dbu.UpdatedAt,
	}
}
