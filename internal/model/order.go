package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer's purchase. OrderDate and LocationID are
// snapshots taken at placement time; Total is computed from the
// detail lines and never entered by the caller. ShipperID,
// ShippedDate and ShipName always change together: an order detached
// from its shipper is logically unshipped.
//
// Fields:
//  ID           – primary key identifier.
//  CustomerID   – owning customer, required.
//  ShipperID    – assigned shipper, nil until shipped.
//  OrderDate    – UTC instant the order was placed.
//  RequiredDate – caller-supplied due date, immutable once shipped.
//  ShippedDate  – when the order shipped, nil until then.
//  Total        – Σ(quantity × unit price − discount) over the lines.
//  ShipName     – destination name, set when shipped.
//  LocationID   – customer's location at placement time.
//  Details      – line items belonging to this order.
type Order struct {
	ID           uint64          // orders.id
	CustomerID   uint64          // orders.customer_id
	ShipperID    *uint64         // orders.shipper_id (nullable)
	OrderDate    time.Time       // orders.order_date
	RequiredDate time.Time       // orders.required_date
	ShippedDate  *time.Time      // orders.shipped_date (nullable)
	Total        decimal.Decimal // orders.total
	ShipName     *string         // orders.ship_name (nullable)
	LocationID   uint64          // orders.location_id
	Details      []OrderDetail   // owned line items
}

// OrderDetail is one line of an order, keyed by (order, product).
// UnitPrice is snapshotted from the product at placement time so
// later price changes do not alter past orders.
//
// Fields:
//  OrderID   – owning order.
//  ProductID – ordered product.
//  UnitPrice – price per unit at placement time.
//  Quantity  – units ordered, clamped to stock at placement.
//  Discount  – amount subtracted from this line.
type OrderDetail struct {
	OrderID   uint64          // order_details.order_id
	ProductID uint64          // order_details.product_id
	UnitPrice decimal.Decimal // order_details.unit_price
	Quantity  int32           // order_details.quantity
	Discount  decimal.Decimal // order_details.discount
}
