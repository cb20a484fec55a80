package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/florinmsk/shop-api/internal/logging"
	"github.com/florinmsk/shop-api/internal/user"
	"github.com/florinmsk/shop-api/internal/validation"
)

// ErrInvalidCredentials is returned for any login mismatch. The message
// never reveals whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenName is the label attached to tokens issued by register and login.
const TokenName = "auth_token"

const minPasswordLen = 8
const maxFieldLen = 255

// RegisterInput carries the registration fields before validation.
type RegisterInput struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Service handles authentication business logic
type Service struct {
	users  UserStore
	tokens TokenStore
	logger *logging.Logger
}

func NewService(users UserStore, tokens TokenStore, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register validates the input, creates the user with the default role and
// issues a first token. Validation failures carry the complete field bag.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, string, error) {
	bag := validation.NewBag()

	if in.LastName == "" {
		bag.Add("last_name", "The last name is required.")
	} else if len(in.LastName) > maxFieldLen {
		bag.Add("last_name", "The last name must not be greater than 255 characters.")
	}

	if in.FirstName == "" {
		bag.Add("first_name", "The first name is required.")
	} else if len(in.FirstName) > maxFieldLen {
		bag.Add("first_name", "The first name must not be greater than 255 characters.")
	}

	switch {
	case in.Email == "":
		bag.Add("email", "Please provide a valid email address.")
	case len(in.Email) > maxFieldLen:
		bag.Add("email", "The email must not be greater than 255 characters.")
	case !validation.ValidEmail(in.Email):
		bag.Add("email", "Please provide a valid email address.")
	default:
		_, err := s.users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			bag.Add("email", "This email address is already registered.")
		case !errors.Is(err, user.ErrNotFound):
			return nil, "", fmt.Errorf("failed to check email uniqueness: %w", err)
		}
	}

	switch {
	case in.Password == "":
		bag.Add("password", "Password is required.")
	case len(in.Password) < minPasswordLen:
		bag.Add("password", "The password must be at least 8 characters.")
	case in.Password != in.PasswordConfirmation:
		bag.Add("password", "The passwords do not match.")
	}

	if err := bag.Err(); err != nil {
		return nil, "", err
	}

	passwordHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, in.FirstName, in.LastName, in.Email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			// Lost the insert race against a concurrent registration. The
			// client sees the same 422 it would have seen a moment earlier.
			raceBag := validation.NewBag()
			raceBag.Add("email", "This email address is already registered.")
			return nil, "", raceBag.Err()
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	plaintext, err := s.issueToken(ctx, newUser.ID)
	if err != nil {
		return nil, "", err
	}

	return newUser, plaintext, nil
}

// Login authenticates credentials, stamps last_login_at and issues a new
// token. Tokens from earlier logins stay valid.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	bag := validation.NewBag()

	switch {
	case email == "":
		bag.Add("email", "Please provide a valid email address.")
	case !validation.ValidEmail(email):
		bag.Add("email", "Please provide a valid email address.")
	}

	switch {
	case password == "":
		bag.Add("password", "Password is required.")
	case len(password) < minPasswordLen:
		bag.Add("password", "The password must be at least 8 characters.")
	}

	if err := bag.Err(); err != nil {
		return nil, "", err
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	loginAt, err := s.users.TouchLastLogin(ctx, existingUser.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}
	existingUser.LastLoginAt = &loginAt

	plaintext, err := s.issueToken(ctx, existingUser.ID)
	if err != nil {
		return nil, "", err
	}

	return existingUser, plaintext, nil
}

// ResolveToken maps a presented bearer token to its user. Malformed,
// unknown and revoked tokens all fail identically with ErrInvalidToken.
func (s *Service) ResolveToken(ctx context.Context, plaintext string) (*user.User, *Token, error) {
	id, secret, err := ParsePlaintext(plaintext)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	token, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if !token.Matches(secret) {
		return nil, nil, ErrInvalidToken
	}

	owner, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to load token owner: %w", err)
	}

	// Best effort; a failed stamp must not fail the request.
	if err := s.tokens.TouchLastUsed(ctx, token.ID); err != nil {
		s.logger.Warn("failed to stamp token last_used_at", "token_id", token.ID, "error", err)
	}

	return owner, token, nil
}

// RevokeToken deletes a single token. Idempotent.
func (s *Service) RevokeToken(ctx context.Context, tokenID uuid.UUID) error {
	return s.tokens.Delete(ctx, tokenID)
}

// RevokeAllTokens deletes every token owned by the user, including the one
// used for the current request.
func (s *Service) RevokeAllTokens(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteAllForUser(ctx, userID)
}

// issueToken creates and persists a token and returns the one-time
// plaintext. The secret is never recoverable after this returns.
func (s *Service) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	secret, err := NewTokenSecret()
	if err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}

	token := &Token{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      TokenName,
		TokenHash: HashTokenSecret(secret),
		CreatedAt: time.Now(),
	}

	if err := s.tokens.Store(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return FormatPlaintext(token.ID, secret), nil
}
