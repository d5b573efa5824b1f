// This file defines the repository for categories. Categories have a
// unique name; deleting one is a two-step business rule (detach
// products first) handled in the service layer, so Delete here only
// removes the category row itself.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrCategoryNotFound is returned when a category cannot be found.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// ListAll returns all categories ordered by id.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*model.Category, error) {
	const q = `SELECT id, name, description FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := new(model.Category)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a category by its ID. It returns ErrCategoryNotFound
// if no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	const q = `SELECT id, name, description FROM categories WHERE id = ?`
	var c model.Category
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByName fetches a category by its unique name.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	const q = `SELECT id, name, description FROM categories WHERE name = ?`
	var c model.Category
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category. On success the ID field is populated
// with the auto-generated value and true is reported. A name collision
// surfaces as ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) (bool, error) {
	const q = `INSERT INTO categories (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description)
	if err != nil {
		if isDuplicateErr(err) {
			return false, ErrDuplicate
		}
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	c.ID = uint64(id)
	return affected(res), nil
}

// Update overwrites name and description of an existing category.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) (bool, error) {
	const q = `UPDATE categories SET name = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.ID)
	if err != nil {
		if isDuplicateErr(err) {
			return false, ErrDuplicate
		}
		return false, err
	}
	return affected(res), nil
}

// Delete removes the category row. Product detachment must already be
// committed by the caller; the store enforces the foreign key.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}
