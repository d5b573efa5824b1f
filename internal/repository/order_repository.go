// This file defines the repository for orders and their lines. An
// order and its order_details rows are written together in one
// transaction; ship assignment and un-shipping always touch the three
// shipping columns as a unit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/averdin/northwind-api/internal/model"
)

// ErrOrderNotFound is returned when an order cannot be found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo encapsulates all database queries related to orders.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the provided DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderCols = `id, customer_id, shipper_id, order_date, required_date,
	shipped_date, total, ship_name, location_id`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var (
		o         model.Order
		shipperID sql.NullInt64
		shipped   sql.NullTime
		shipName  sql.NullString
	)
	err := row.Scan(&o.ID, &o.CustomerID, &shipperID, &o.OrderDate, &o.RequiredDate,
		&shipped, &o.Total, &shipName, &o.LocationID)
	if err != nil {
		return nil, err
	}
	if shipperID.Valid {
		v := uint64(shipperID.Int64)
		o.ShipperID = &v
	}
	if shipped.Valid {
		t := shipped.Time
		o.ShippedDate = &t
	}
	if shipName.Valid {
		s := shipName.String
		o.ShipName = &s
	}
	return &o, nil
}

// GetByID fetches an order with its lines.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Details, err = r.details(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDAndCustomer fetches an order only if it belongs to the customer.
func (r *OrderRepo) GetByIDAndCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ? AND customer_id = ?`, id, customerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Details, err = r.details(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDAndShipper fetches an order only if it is assigned to the shipper.
func (r *OrderRepo) GetByIDAndShipper(ctx context.Context, id, shipperID uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = ? AND shipper_id = ?`, id, shipperID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Details, err = r.details(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByCustomer returns a customer's orders, without lines.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]*model.Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE customer_id = ? ORDER BY id`, customerID)
}

// ListByShipper returns the orders assigned to a shipper, without lines.
func (r *OrderRepo) ListByShipper(ctx context.Context, shipperID uint64) ([]*model.Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE shipper_id = ? ORDER BY id`, shipperID)
}

func (r *OrderRepo) list(ctx context.Context, q string, args ...any) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) details(ctx context.Context, orderID uint64) ([]model.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, unit_price, quantity, discount
		 FROM order_details WHERE order_id = ? ORDER BY product_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderDetail
	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.OrderID, &d.ProductID, &d.UnitPrice, &d.Quantity, &d.Discount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create inserts the order and all of its lines in one transaction
// and populates the order id.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) (bool, error) {
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
		`INSERT INTO orders (customer_id, shipper_id, order_date, required_date,
		 shipped_date, total, ship_name, location_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.CustomerID, nullableID(o.ShipperID), o.OrderDate, o.RequiredDate,
		o.ShippedDate, o.Total, o.ShipName, o.LocationID)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	o.ID = uint64(id)
	for i := range o.Details {
		o.Details[i].OrderID = o.ID
		d := o.Details[i]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO order_details (order_id, product_id, unit_price, quantity, discount)
			 VALUES (?, ?, ?, ?, ?)`,
			d.OrderID, d.ProductID, d.UnitPrice, d.Quantity, d.Discount); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRequiredDate overwrites the required date only. The shipped
// check belongs to the service layer; this is a plain column update.
func (r *OrderRepo) UpdateRequiredDate(ctx context.Context, orderID uint64, required time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET required_date = ? WHERE id = ?`, required, orderID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// AssignShipper attaches an order to a shipper, setting the shipped
// date and ship name supplied by the caller in the same update.
func (r *OrderRepo) AssignShipper(ctx context.Context, orderID, shipperID uint64, shippedDate time.Time, shipName string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET shipper_id = ?, shipped_date = ?, ship_name = ? WHERE id = ?`,
		shipperID, shippedDate, shipName, orderID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// Unship detaches an order from its shipper. The three shipping
// columns always change together, never independently.
func (r *OrderRepo) Unship(ctx context.Context, orderID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET shipper_id = NULL, shipped_date = NULL, ship_name = NULL WHERE id = ?`,
		orderID)
	if err != nil {
		return false, err
	}
	return affected(res), nil
}

// DeleteWithDetails removes an order and its lines in one transaction.
func (r *OrderRepo) DeleteWithDetails(ctx context.Context, orderID uint64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = ?`, orderID); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return affected(res), nil
}
