package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func strPtr(s string) *string { return &s }

// Seed inserts the demo admin user, sample categories and sample products.
// The caller supplies the admin password hash so this package stays free of
// any hashing dependency. Seeding is idempotent: it does nothing when a
// user already exists.
func Seed(ctx context.Context, db *bun.DB, adminPasswordHash string) error {
	count, err := db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		admin := &User{
			ID:           uuid.New(),
			FirstName:    "Florin",
			LastName:     "Mesca",
			Email:        "florin@mesca.dev",
			PasswordHash: adminPasswordHash,
			Role:         "admin",
		}
		if _, err := tx.NewInsert().Model(admin).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		categories := []Category{
			{Name: "Laptops", Description: strPtr("Devices for personal computing")},
			{Name: "PCs", Description: strPtr("Desktop computers for work and gaming")},
			{Name: "Phones", Description: strPtr("Mobile devices for communication")},
		}
		if _, err := tx.NewInsert().Model(&categories).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		products := []Product{
			{
				Name:        "ThinkPad X1 Carbon",
				Description: strPtr("14-inch business ultrabook"),
				Image:       "https://img.example.com/thinkpad-x1.jpg",
				Quantity:    12,
				Status:      "available",
				Price:       1899.00,
				CategoryID:  categories[0].ID,
			},
			{
				Name:        "Gaming Tower RTX",
				Description: strPtr("Mid-tower desktop with dedicated graphics"),
				Image:       "https://img.example.com/gaming-tower.jpg",
				Quantity:    5,
				Status:      "available",
				Price:       2499.99,
				CategoryID:  categories[1].ID,
			},
			{
				Name:        "Pixel 9",
				Description: strPtr("Flagship Android phone"),
				Image:       "https://img.example.com/pixel-9.jpg",
				Quantity:    0,
				Status:      "unavailable",
				Price:       999.00,
				CategoryID:  categories[2].ID,
			},
		}
		if _, err := tx.NewInsert().Model(&products).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		return nil
	})
}
