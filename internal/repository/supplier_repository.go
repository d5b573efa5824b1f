// This file defines the repository for suppliers. A supplier owns
// exactly one location; the pair is created, updated and deleted
// together inside a transaction so the 1:1 link can never be half
// applied.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrSupplierNotFound is returned when a supplier cannot be found.
var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierRepo encapsulates all database queries related to suppliers.
type SupplierRepo struct {
	db *sql.DB
}

// NewSupplierRepo constructs a SupplierRepo with the provided DB handle.
func NewSupplierRepo(db *sql.DB) *SupplierRepo {
	return &SupplierRepo{db: db}
}

const supplierCols = `s.id, s.company_name, s.contact_name, s.contact_title,
	l.id, l.address, l.city, l.region, l.postal_code, l.country, l.phone, l.extension, l.fax`

func scanSupplier(row interface{ Scan(...any) error }) (*model.Supplier, error) {
	var (
		s model.Supplier
		l model.Location
	)
	err := row.Scan(&s.ID, &s.CompanyName, &s.ContactName, &s.ContactTitle,
		&l.ID, &l.Address, &l.City, &l.Region, &l.PostalCode, &l.Country,
		&l.Phone, &l.Extension, &l.Fax)
	if err != nil {
		return nil, err
	}
	s.Location = &l
	return &s, nil
}

// ListAll returns all suppliers with their locations. Since there is
// only one location per supplier it is always returned as well.
func (r *SupplierRepo) ListAll(ctx context.Context) ([]*model.Supplier, error) {
	const q = `SELECT ` + supplierCols + `
		FROM suppliers s JOIN locations l ON l.id = s.location_id ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a supplier and its location by supplier id.
func (r *SupplierRepo) GetByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	const q = `SELECT ` + supplierCols + `
		FROM suppliers s JOIN locations l ON l.id = s.location_id WHERE s.id = ?`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	return s, err
}

// Create inserts a supplier together with its owned location. Both IDs
// are populated on success. A duplicate location address surfaces as
// ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, s *model.Supplier) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	locID, err := insertLocation(ctx, tx, s.Location)
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO suppliers (company_name, contact_name, contact_title, location_id) VALUES (?, ?, ?, ?)`,
		s.CompanyName, s.ContactName, s.ContactTitle, locID)
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
	s.ID = uint64(id)
	s.Location.ID = locID
	return true, nil
}

// Update overwrites the supplier row and its location row together.
func (r *SupplierRepo) Update(ctx context.Context, s *model.Supplier) (bool, error) {
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
		`UPDATE suppliers SET company_name = ?, contact_name = ?, contact_title = ? WHERE id = ?`,
		s.CompanyName, s.ContactName, s.ContactTitle, s.ID)
	if err != nil {
		return false, err
	}
	changed := affected(res)
	if s.Location != nil {
		res, err = updateLocation(ctx, tx, s.Location)
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

// DeleteWithLocation removes the supplier and its owned location in
// one transaction. Product detachment must already be committed by the
// caller.
func (r *SupplierRepo) DeleteWithLocation(ctx context.Context, s *model.Supplier) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, s.ID)
	if err != nil {
		return false, err
	}
	deleted := affected(res)
	if s.Location != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, s.Location.ID); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return deleted, nil
}

// insertLocation adds a location row and returns its id. Shared with
// the customer repository, which owns locations the same way.
func insertLocation(ctx context.Context, tx *sql.Tx, l *model.Location) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO locations (address, city, region, postal_code, country, phone, extension, fax)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Address, l.City, l.Region, l.PostalCode, l.Country, l.Phone, l.Extension, l.Fax)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func updateLocation(ctx context.Context, tx *sql.Tx, l *model.Location) (sql.Result, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE locations SET address = ?, city = ?, region = ?, postal_code = ?,
		 country = ?, phone = ?, extension = ?, fax = ? WHERE id = ?`,
		l.Address, l.City, l.Region, l.PostalCode, l.Country, l.Phone, l.Extension, l.Fax, l.ID)
	if err != nil && isDuplicateErr(err) {
		return nil, ErrDuplicate
	}
	return res, err
}
