package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/averdin/northwind-api/internal/model"
	"github.com/averdin/northwind-api/internal/repository"
)

// ErrOrderShipped is returned when a mutation is attempted on an
// order that has already been scheduled to ship.
var ErrOrderShipped = errors.New("order has already been shipped")

// QuantityError reports a line item with a non-positive quantity.
type QuantityError struct {
	ProductID uint64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("quantity for product %d must be greater than zero", e.ProductID)
}

// ProductsNotFoundError carries every requested product id that did
// not resolve to an active product, so the caller learns about all of
// them at once instead of retrying one at a time.
type ProductsNotFoundError struct {
	ProductIDs []uint64
}

func (e *ProductsNotFoundError) Error() string {
	return "products not found: " + e.IDList()
}

// IDList formats the offending ids as a bracketed comma-joined list,
// e.g. "[2,3]".
func (e *ProductsNotFoundError) IDList() string {
	parts := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ProductFinder resolves catalog products during order placement.
type ProductFinder interface {
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
}

// OrderStore persists orders for the placement engine.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) (bool, error)
	UpdateRequiredDate(ctx context.Context, orderID uint64, required time.Time) (bool, error)
}

// OrderService is the order placement engine. Place validates and
// prices an order in memory; Save commits it. The two steps are
// separate so a failed validation never leaves a partial order behind.
type OrderService struct {
	products ProductFinder
	orders   OrderStore
}

// NewOrderService constructs the placement engine.
func NewOrderService(products ProductFinder, orders OrderStore) *OrderService {
	return &OrderService{products: products, orders: orders}
}

// Place validates the order's requested line items against the
// catalog and fills in the computed fields.
//
// Rules, in the order applied:
//   - any line with quantity <= 0 fails immediately with QuantityError;
//   - a line resolves only when a product with that id exists and is
//     not discontinued; every unresolved id is collected and reported
//     together in one ProductsNotFoundError;
//   - resolved lines snapshot the product's current unit price and
//     clamp the quantity to the units in stock, silently — partial
//     fulfilment is accepted behavior, and stock is not decremented;
//   - the order date, customer and location snapshot are set here;
//   - the total is the exact decimal sum of quantity × unit price
//     minus discount over all lines.
//
// The order is returned populated but unsaved; call Save to commit.
func (s *OrderService) Place(ctx context.Context, customer *model.Customer, order *model.Order) error {
	log.Printf("order: placing order for customer %d with %d line(s)", customer.ID, len(order.Details))

	for i := range order.Details {
		if order.Details[i].Quantity <= 0 {
			return &QuantityError{ProductID: order.Details[i].ProductID}
		}
	}

	var missing []uint64
	resolved := make([]*model.Product, len(order.Details))
	for i := range order.Details {
		p, err := s.products.GetByID(ctx, order.Details[i].ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				missing = append(missing, order.Details[i].ProductID)
				continue
			}
			return err
		}
		if p.Discontinued != 0 {
			missing = append(missing, order.Details[i].ProductID)
			continue
		}
		resolved[i] = p
	}
	if len(missing) > 0 {
		return &ProductsNotFoundError{ProductIDs: missing}
	}

	total := decimal.Zero
	for i := range order.Details {
		d := &order.Details[i]
		p := resolved[i]
		d.UnitPrice = p.UnitPrice
		if d.Quantity > p.UnitsInStock {
			d.Quantity = p.UnitsInStock
		}
		line := d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))).Sub(d.Discount)
		total = total.Add(line)
	}

	order.CustomerID = customer.ID
	order.LocationID = customer.Location.ID
	order.OrderDate = time.Now().UTC()
	order.Total = total
	return nil
}

// Save commits a placed order together with its lines; true means the
// order row was inserted.
func (s *OrderService) Save(ctx context.Context, o *model.Order) (bool, error) {
	return s.orders.Create(ctx, o)
}

// ChangeRequiredDate overwrites the required date of an unshipped
// order. Once the shipped date is set, the required date is immutable
// and the call fails with ErrOrderShipped, leaving the order intact.
func (s *OrderService) ChangeRequiredDate(ctx context.Context, o *model.Order, required time.Time) (bool, error) {
	if o.ShippedDate != nil {
		return false, ErrOrderShipped
	}
	ok, err := s.orders.UpdateRequiredDate(ctx, o.ID, required)
	if err != nil || !ok {
		return ok, err
	}
	o.RequiredDate = required
	return true, nil
}
