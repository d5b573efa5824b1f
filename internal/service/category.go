package service

import (
	"context"
	"log"

	"github.com/averdin/northwind-api/internal/model"
)

// CategoryStore is the slice of the category repository the lifecycle
// rules need.
type CategoryStore interface {
	Delete(ctx context.Context, id uint64) (bool, error)
}

// CategoryDetacher detaches products from a category in bulk. The
// call is durable when it returns.
type CategoryDetacher interface {
	DetachAllFromCategory(ctx context.Context, categoryID uint64) error
}

// CategoryService enforces the category lifecycle rule: products are
// detached, never deleted, when their category goes away.
type CategoryService struct {
	categories CategoryStore
	products   CategoryDetacher
}

// NewCategoryService constructs the category lifecycle service.
func NewCategoryService(categories CategoryStore, products CategoryDetacher) *CategoryService {
	return &CategoryService{categories: categories, products: products}
}

// Delete detaches every product of the category and then deletes the
// category itself. The detachment must be committed first because the
// store enforces the foreign key on the category row.
func (s *CategoryService) Delete(ctx context.Context, c *model.Category) (bool, error) {
	log.Printf("category: detaching products from category %q", c.Name)
	if err := s.products.DetachAllFromCategory(ctx, c.ID); err != nil {
		return false, err
	}
	log.Printf("category: deleting category %q", c.Name)
	return s.categories.Delete(ctx, c.ID)
}
