package catalog

import (
	"context"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, including its reviews
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product with optimistic lock version checking
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete removes a product row entirely; soft deletes go through
	// Deactivate + Save instead
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// DecrementStock atomically decrements stock if enough units remain.
	// Returns false without modifying the row when stock < quantity.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// IncrementStock adds quantity units back to stock
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
