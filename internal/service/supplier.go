package service

import (
	"context"
	"log"

	"github.com/averdin/northwind-api/internal/model"
)

// SupplierStore is the slice of the supplier repository the lifecycle
// rules need.
type SupplierStore interface {
	DeleteWithLocation(ctx context.Context, s *model.Supplier) (bool, error)
}

// SupplierDetacher detaches products from a supplier in bulk.
type SupplierDetacher interface {
	DetachAllFromSupplier(ctx context.Context, supplierID uint64) error
}

// SupplierService enforces the supplier lifecycle rule: products are
// detached first, then the supplier and its owned location go
// together.
type SupplierService struct {
	suppliers SupplierStore
	products  SupplierDetacher
}

// NewSupplierService constructs the supplier lifecycle service.
func NewSupplierService(suppliers SupplierStore, products SupplierDetacher) *SupplierService {
	return &SupplierService{suppliers: suppliers, products: products}
}

// Delete detaches every product of the supplier (committed before the
// parent delete), then removes the supplier and its location.
func (s *SupplierService) Delete(ctx context.Context, sup *model.Supplier) (bool, error) {
	log.Printf("supplier: detaching products from supplier %q", sup.CompanyName)
	if err := s.products.DetachAllFromSupplier(ctx, sup.ID); err != nil {
		return false, err
	}
	log.Printf("supplier: deleting supplier %q", sup.CompanyName)
	return s.suppliers.DeleteWithLocation(ctx, sup)
}
