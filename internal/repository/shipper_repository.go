// This file defines the repository for shippers. Deleting a shipper
// un-ships every order assigned to it inside the same transaction:
// the orders survive with shipper id, shipped date and ship name all
// cleared.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrShipperNotFound is returned when a shipper cannot be found.
var ErrShipperNotFound = errors.New("shipper not found")

// ShipperRepo encapsulates all database queries related to shippers.
type ShipperRepo struct {
	db *sql.DB
}

// NewShipperRepo constructs a ShipperRepo with the provided DB handle.
func NewShipperRepo(db *sql.DB) *ShipperRepo {
	return &ShipperRepo{db: db}
}

// ListAll returns all shippers ordered by id.
func (r *ShipperRepo) ListAll(ctx context.Context) ([]*model.Shipper, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, company_name, phone FROM shippers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Shipper
	for rows.Next() {
		s := new(model.Shipper)
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.Phone); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a shipper by id, returning ErrShipperNotFound when absent.
func (r *ShipperRepo) GetByID(ctx context.Context, id uint64) (*model.Shipper, error) {
	var s model.Shipper
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_name, phone FROM shippers WHERE id = ?`, id).
		Scan(&s.ID, &s.CompanyName, &s.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipperNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a shipper and populates its ID.
func (r *ShipperRepo) Create(ctx context.Context, s *model.Shipper) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shippers (company_name, phone) VALUES (?, ?)`, s.CompanyName, s.Phone)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	s.ID = uint64(id)
	return affected(res), nil
}

// Update overwrites company name and phone.
func (r *ShipperRepo) Update(ctx context.Context, s *model.Shipper) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shippers SET company_name = ?, phone = ? WHERE id = ?`,
		s.CompanyName, s.Phone, s.ID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// DeleteDetachingOrders un-ships every order assigned to the shipper,
// then deletes the shipper, all in one transaction.
func (r *ShipperRepo) DeleteDetachingOrders(ctx context.Context, id uint64) (bool, error) {
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
		`UPDATE orders SET shipper_id = NULL, shipped_date = NULL, ship_name = NULL WHERE shipper_id = ?`,
		id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM shippers WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return affected(res), nil
}
