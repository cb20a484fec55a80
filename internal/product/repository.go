package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/florinmsk/shop-api/internal/database"
)

var ErrNotFound = errors.New("product not found")

// Repository handles product persistence. Soft-deleted rows are excluded
// from every query by bun's soft_delete support.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all live products.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var dbProducts []database.Product
	err := r.db.NewSelect().
		Model(&dbProducts).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]Product, 0, len(dbProducts))
	for i := range dbProducts {
		products = append(products, *mapDBProductToModel(&dbProducts[i]))
	}
	return products, nil
}

// GetByID retrieves a live product by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	dbProduct := new(database.Product)
	err := r.db.NewSelect().
		Model(dbProduct).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return mapDBProductToModel(dbProduct), nil
}

// NameExists reports whether another live product already uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := r.db.NewSelect().
		Model((*database.Product)(nil)).
		Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, fields Fields) (*Product, error) {
	now := time.Now()
	dbProduct := &database.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Image:       fields.Image,
		Quantity:    fields.Quantity,
		Status:      fields.Status,
		Price:       fields.Price,
		CategoryID:  fields.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.NewInsert().
		Model(dbProduct).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return mapDBProductToModel(dbProduct), nil
}

// Update modifies an existing live product.
func (r *Repository) Update(ctx context.Context, id int64, fields Fields) (*Product, error) {
	result, err := r.db.NewUpdate().
		Model((*database.Product)(nil)).
		Set("name = ?", fields.Name).
		Set("description = ?", fields.Description).
		Set("image = ?", fields.Image).
		Set("quantity = ?", fields.Quantity).
		Set("status = ?", fields.Status).
		Set("price = ?", fields.Price).
		Set("category_id = ?", fields.CategoryID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete soft-deletes a product.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBProductToModel converts database model to domain model
func mapDBProductToModel(dbp *database.Product) *Product {
	return &Product{
		ID:          dbp.ID,
		Name:        dbp.Name,
		Description: dbp.Description,
		Image:       dbp.Image,
		Quantity:    dbp.Quantity,
		Status:      dbp.Status,
		Price:       dbp.Price,
		CategoryID:  dbp.CategoryID,
		CreatedAt:   dbp.CreatedAt,
		UpdatedAt:   dbp.UpdatedAt,
	}
}
