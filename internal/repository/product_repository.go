// This file defines the repository for products. Products carry
// nullable category and supplier references; the Detach* methods
// clear those references in bulk and commit immediately, which is the
// ordering the delete rules in the service layer rely on.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrProductNotFound is returned when a product cannot be found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepo encapsulates all database queries related to products.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the provided DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productCols = `id, name, category_id, supplier_id, quantity_per_unit,
	unit_price, units_in_stock, units_on_order, reorder_level, discontinued`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var (
		p          model.Product
		categoryID sql.NullInt64
		supplierID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &categoryID, &supplierID, &p.QuantityPerUnit,
		&p.UnitPrice, &p.UnitsInStock, &p.UnitsOnOrder, &p.ReorderLevel, &p.Discontinued)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		v := uint64(categoryID.Int64)
		p.CategoryID = &v
	}
	if supplierID.Valid {
		v := uint64(supplierID.Int64)
		p.SupplierID = &v
	}
	return &p, nil
}

// GetByID fetches a product by id, returning ErrProductNotFound when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ListAll returns every product ordered by id.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
}

// ListByCategory returns the products attached to a category.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Product, error) {
	return r.list(ctx, `SELECT `+productCols+` FROM products WHERE category_id = ? ORDER BY id`, categoryID)
}

// ListBySupplier returns the products attached to a supplier.
func (r *ProductRepo) ListBySupplier(ctx context.Context, supplierID uint64) ([]*model.Product, error) {
	return r.list(ctx, `SELECT `+productCols+` FROM products WHERE supplier_id = ? ORDER BY id`, supplierID)
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...any) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and populates its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (bool, error) {
	const q = `INSERT INTO products
		(name, category_id, supplier_id, quantity_per_unit, unit_price,
		 units_in_stock, units_on_order, reorder_level, discontinued)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Name, nullableID(p.CategoryID), nullableID(p.SupplierID),
		p.QuantityPerUnit, p.UnitPrice, p.UnitsInStock, p.UnitsOnOrder, p.ReorderLevel, p.Discontinued)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	p.ID = uint64(id)
	return affected(res), nil
}

// Update overwrites every mutable column of a product, including the
// category and supplier references (nil clears them).
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) (bool, error) {
	const q = `UPDATE products SET
		name = ?, category_id = ?, supplier_id = ?, quantity_per_unit = ?,
		unit_price = ?, units_in_stock = ?, units_on_order = ?, reorder_level = ?,
		discontinued = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, nullableID(p.CategoryID), nullableID(p.SupplierID),
		p.QuantityPerUnit, p.UnitPrice, p.UnitsInStock, p.UnitsOnOrder, p.ReorderLevel,
		p.Discontinued, p.ID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// Delete removes a product row outright. Used only by the top-level
// catalog endpoint; the nested category/supplier endpoints detach
// instead.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// DetachFromCategory clears the category reference on a single
// product, leaving every other field untouched.
func (r *ProductRepo) DetachFromCategory(ctx context.Context, productID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET category_id = NULL WHERE id = ?`, productID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// DetachFromSupplier clears the supplier reference on a single product.
func (r *ProductRepo) DetachFromSupplier(ctx context.Context, productID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET supplier_id = NULL WHERE id = ?`, productID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// DetachAllFromCategory clears the category reference on every product
// of the category. The update is durable once this returns, which must
// happen before the category row itself is deleted.
func (r *ProductRepo) DetachAllFromCategory(ctx context.Context, categoryID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET category_id = NULL WHERE category_id = ?`, categoryID)
	return err
}

// DetachAllFromSupplier clears the supplier reference on every product
// of the supplier, committed before the supplier delete is issued.
func (r *ProductRepo) DetachAllFromSupplier(ctx context.Context, supplierID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET supplier_id = NULL WHERE supplier_id = ?`, supplierID)
	return err
}

// nullableID converts an optional foreign key into a driver value.
func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
