// This file defines the repository for customers. Like suppliers,
// each customer owns one location. Deleting a customer cascades to
// its orders: order lines and orders are deleted explicitly inside
// the transaction, with the storage-level cascade as a backstop only.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrCustomerNotFound is returned when a customer cannot be found.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo encapsulates all database queries related to customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerCols = `c.id, c.company_code, c.company_name, c.contact_name, c.contact_title,
	l.id, l.address, l.city, l.region, l.postal_code, l.country, l.phone, l.extension, l.fax`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var (
		c model.Customer
		l model.Location
	)
	err := row.Scan(&c.ID, &c.CompanyCode, &c.CompanyName, &c.ContactName, &c.ContactTitle,
		&l.ID, &l.Address, &l.City, &l.Region, &l.PostalCode, &l.Country,
		&l.Phone, &l.Extension, &l.Fax)
	if err != nil {
		return nil, err
	}
	c.Location = &l
	return &c, nil
}

// ListAll returns all customers with their locations.
func (r *CustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	const q = `SELECT ` + customerCols + `
		FROM customers c JOIN locations l ON l.id = c.location_id ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a customer and its location by customer id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerCols + `
		FROM customers c JOIN locations l ON l.id = c.location_id WHERE c.id = ?`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

// Create inserts a customer together with its owned location.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	locID, err := insertLocation(ctx, tx, c.Location)
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO customers (company_code, company_name, contact_name, contact_title, location_id)
		 VALUES (?, ?, ?, ?, ?)`,
		c.CompanyCode, c.CompanyName, c.ContactName, c.ContactTitle, locID)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	c.ID = uint64(id)
	c.Location.ID = locID
	return true, nil
}

// Update overwrites the customer row and its location row together.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE customers SET company_code = ?, company_name = ?, contact_name = ?, contact_title = ? WHERE id = ?`,
		c.CompanyCode, c.CompanyName, c.ContactName, c.ContactTitle, c.ID)
	if err != nil {
		return false, err
	}
	changed := affected(res)
	if c.Location != nil {
		res, err = updateLocation(ctx, tx, c.Location)
		if err != nil {
			return false, err
		}
		changed = changed || affected(res)
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return changed, nil
}

// DeleteCascade removes the customer, its orders (with their lines)
// and its location in one transaction. Orders are customer-owned data,
// so they are deleted outright, never detached.
func (r *CustomerRepo) DeleteCascade(ctx context.Context, c *model.Customer) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE d FROM order_details d JOIN orders o ON o.id = d.order_id WHERE o.customer_id = ?`,
		c.ID); err != nil {
		return false, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE customer_id = ?`, c.ID); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, c.ID)
	if err != nil {
		return false, err
	}
	deleted := affected(res)
	if c.Location != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, c.Location.ID); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return deleted, nil
}
