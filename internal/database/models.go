package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted user record.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	FirstName       string     `bun:"first_name,notnull"`
	LastName        string     `bun:"last_name,notnull"`
	Email           string     `bun:"email,notnull,unique"`
	PasswordHash    string     `bun:"password_hash,notnull"`
	Role            string     `bun:"role,notnull,default:'user'"`
	Avatar          *string    `bun:"avatar"`
	EmailVerifiedAt *time.Time `bun:"email_verified_at"`
	LastLoginAt     *time.Time `bun:"last_login_at"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// AccessToken holds the persisted half of an issued bearer token. Only the
// SHA-256 digest of the secret is stored; the plaintext leaves the process
// once, at issuance.
type AccessToken struct {
	bun.BaseModel `bun:"table:access_tokens"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID     uuid.UUID  `bun:"user_id,notnull,type:uuid"`
	Name       string     `bun:"name,notnull"`
	TokenHash  string     `bun:"token_hash,notnull"`
	LastUsedAt *time.Time `bun:"last_used_at"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// Category is a product category. Deletion is soft: bun excludes rows with
// a deleted_at timestamp from regular queries.
type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Name        string     `bun:"name,notnull"`
	Description *string    `bun:"description"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt   *time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// Product is a catalog item referencing a category.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Name        string     `bun:"name,notnull"`
	Description *string    `bun:"description"`
	Image       string     `bun:"image,notnull"`
	Quantity    int        `bun:"quantity,notnull"`
	Status      string     `bun:"status,notnull"`
	Price       float64    `bun:"price,notnull"`
	CategoryID  int64      `bun:"category_id,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt   *time.Time `bun:"deleted_at,soft_delete,nullzero"`
}
