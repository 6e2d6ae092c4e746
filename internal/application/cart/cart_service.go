package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimart/backend/internal/domain/cart"
	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartService handles shopping cart operations
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart, creating an empty one on first access
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	userCart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, userCart)
}

// AddItem adds a product to the user's cart. Lines with the same
// product and size merge by incrementing the quantity.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
			fmt.Sprintf("Product %s is currently unavailable", product.Name))
	}

	userCart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The merged line quantity must fit within available stock
	requested := req.Quantity
	if existing := userCart.FindItem(req.ProductID, req.Size); existing != nil {
		requested += existing.Quantity
	}
	if !product.HasSufficientStock(requested) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: %d available, %d requested",
				product.Name, product.Stock, requested))
	}

	if err := userCart.AddItem(req.ProductID, req.Quantity, req.Size, product.Price); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, userCart)
}

// UpdateItem changes a line's quantity; zero or less removes the line
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.HasSufficientStock(req.Quantity) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: %d available, %d requested",
					product.Name, product.Stock, req.Quantity))
		}
	}

	if err := userCart.UpdateItemQuantity(req.ProductID, req.Size, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, userCart)
}

// RemoveItem removes a line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, req RemoveItemRequest) (*CartResponse, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userCart.RemoveItem(req.ProductID, req.Size)

	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, userCart)
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.Get(ctx, userID)
		}
		return nil, err
	}

	userCart.Clear()

	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, userCart)
}

// getOrCreateCart loads the user's cart, creating and persisting an
// empty one when the user has none yet
func (s *CartService) getOrCreateCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return userCart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	userCart = cart.NewCart(userID)
	if err := s.cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}
	return userCart, nil
}

// toResponse builds the API view of a cart, resolving current product
// names and images from the catalog
func (s *CartService) toResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      make([]CartItemResponse, 0, len(c.Items)),
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}

	if len(c.Items) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for i := range c.Items {
		ids = append(ids, c.Items[i].ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	for i := range c.Items {
		item := &c.Items[i]
		line := CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
			AddedAt:   item.AddedAt,
		}
		if product, ok := productsByID[item.ProductID]; ok {
			line.Name = product.Name
			line.Image = product.Image
		}
		resp.Items = append(resp.Items, line)
	}

	return resp, nil
}
