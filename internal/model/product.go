package model

import "github.com/shopspring/decimal"

// Product is a catalog item. A product may belong to at most one
// category and at most one supplier; both references are nullable
// because products outlive their parents. Discontinued is stored as
// 0/1 the way the legacy schema keeps it.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – required product name.
//  CategoryID      – owning category, nil when detached.
//  SupplierID      – owning supplier, nil when detached.
//  QuantityPerUnit – packaging description (e.g. "24 bottles").
//  UnitPrice       – non-negative current price.
//  UnitsInStock    – units available, never negative.
//  UnitsOnOrder    – units currently on order from the supplier.
//  ReorderLevel    – stock level that triggers reordering.
//  Discontinued    – 1 when the product can no longer be ordered.
type Product struct {
	ID              uint64          // products.id
	Name            string          // products.name
	CategoryID      *uint64         // products.category_id (nullable)
	SupplierID      *uint64         // products.supplier_id (nullable)
	QuantityPerUnit string          // products.quantity_per_unit
	UnitPrice       decimal.Decimal // products.unit_price
	UnitsInStock    int32           // products.units_in_stock
	UnitsOnOrder    int32           // products.units_on_order
	ReorderLevel    int32           // products.reorder_level
	Discontinued    int8            // products.discontinued (0/1)
}
