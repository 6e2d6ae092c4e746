package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUserID finds the user's cart with its items
	// Returns shared.ErrNotFound when the user has no cart yet
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart together with its items
	Save(ctx context.Context, cart *Cart) error

	// Delete removes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
