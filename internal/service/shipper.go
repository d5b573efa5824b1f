package service

import (
	"context"
	"log"

	"github.com/averdin/northwind-api/internal/model"
)

// ShipperStore is the slice of the shipper repository the lifecycle
// rules need.
type ShipperStore interface {
	DeleteDetachingOrders(ctx context.Context, id uint64) (bool, error)
}

// ShipperService enforces the shipper lifecycle rule: an order
// detached from its shipper is logically unshipped, so shipper id,
// shipped date and ship name are cleared together.
type ShipperService struct {
	shippers ShipperStore
}

// NewShipperService constructs the shipper lifecycle service.
func NewShipperService(shippers ShipperStore) *ShipperService {
	return &ShipperService{shippers: shippers}
}

// Delete un-ships every order assigned to the shipper and deletes the
// shipper; the orders themselves are retained.
func (s *ShipperService) Delete(ctx context.Context, sh *model.Shipper) (bool, error) {
	log.Printf("shipper: deleting shipper %q, detaching its orders", sh.CompanyName)
	return s.shippers.DeleteDetachingOrders(ctx, sh.ID)
}
