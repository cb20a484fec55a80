package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/florinmsk/shop-api/internal/database"
)

var ErrNotFound = errors.New("category not found")

// Repository handles category persistence. Soft-deleted rows are excluded
// from every query by bun's soft_delete support.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all live categories.
func (r *Repository) List(ctx context.Context) ([]Category, error) {
	var dbCategories []database.Category
	err := r.db.NewSelect().
		Model(&dbCategories).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]Category, 0, len(dbCategories))
	for i := range dbCategories {
		categories = append(categories, *mapDBCategoryToModel(&dbCategories[i]))
	}
	return categories, nil
}

// GetByID retrieves a live category by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	dbCategory := new(database.Category)
	err := r.db.NewSelect().
		Model(dbCategory).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return mapDBCategoryToModel(dbCategory), nil
}

// Exists reports whether a live category with the id exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.Category)(nil)).
		Where("id = ?", id).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return count > 0, nil
}

// NameExists reports whether another live category already uses the name.
func (r *Repository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := r.db.NewSelect().
		Model((*database.Category)(nil)).
		Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, name string, description *string) (*Category, error) {
	now := time.Now()
	dbCategory := &database.Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.NewInsert().
		Model(dbCategory).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return mapDBCategoryToModel(dbCategory), nil
}

// Update modifies an existing live category.
func (r *Repository) Update(ctx context.Context, id int64, name string, description *string) (*Category, error) {
	now := time.Now()
	result, err := r.db.NewUpdate().
		Model((*database.Category)(nil)).
		Set("name = ?", name).
		Set("description = ?", description).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
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

// Delete soft-deletes a category and, in the same transaction, reassigns
// its live products to the default category so no product is left pointing
// at a deleted parent.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().
			Model((*database.Category)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		_, err = tx.NewUpdate().
			Model((*database.Product)(nil)).
			Set("category_id = ?", DefaultID).
			Set("updated_at = ?", time.Now()).
			Where("category_id = ?", id).
			Where("deleted_at IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to reassign products to default category: %w", err)
		}

		return nil
	})
}

// mapDBCategoryToModel converts database model to domain model
func mapDBCategoryToModel(dbc *database.Category) *Category {
	return &Category{
		ID:          dbc.ID,
		Name:        dbc.Name,
		Description: dbc.Description,
		CreatedAt:   dbc.CreatedAt,
		UpdatedAt:   dbc.UpdatedAt,
	}
}
