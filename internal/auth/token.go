package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const tokenSecretLen = 40

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Token is the stored half of an issued bearer token.
type Token struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	TokenHash  string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Matches reports whether the presented secret corresponds to the stored
// digest, in constant time.
func (t *Token) Matches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(t.TokenHash), []byte(HashTokenSecret(secret))) == 1
}

// NewTokenSecret generates a cryptographically random token secret.
func NewTokenSecret() (string, error) {
	var b strings.Builder
	b.Grow(tokenSecretLen)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < tokenSecretLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// HashTokenSecret returns the hex SHA-256 digest persisted in place of the
// plaintext secret.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// FormatPlaintext builds the one-time plaintext handed to the client:
// "<token id>|<secret>". The id half makes resolution a primary-key lookup.
func FormatPlaintext(id uuid.UUID, secret string) string {
	return fmt.Sprintf("%s|%s", id, secret)
}

// ParsePlaintext splits a presented bearer token into its id and secret
// halves. Any malformed input fails with ErrInvalidToken; callers must not
// distinguish malformed from unknown tokens.
func ParsePlaintext(plaintext string) (uuid.UUID, string, error) {
	idPart, secret, found := strings.Cut(plaintext, "|")
	if !found || secret == "" {
		return uuid.Nil, "", ErrInvalidToken
	}

	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	return id, secret, nil
}
