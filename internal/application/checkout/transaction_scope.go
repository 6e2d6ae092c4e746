package checkout

import (
	"context"

	"github.com/agrimart/backend/internal/domain/cart"
	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/order"
)

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying transaction.
type TransactionalRepositories interface {
	Orders() order.OrderRepository
	Products() catalog.ProductRepository
	Carts() cart.CartRepository
}

// TransactionScope executes a function within a database transaction.
// If the function returns an error, the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against the given repositories
// without a real transaction. Intended for tests.
type NoOpTransactionScope struct {
	OrderRepo   order.OrderRepository
	ProductRepo catalog.ProductRepository
	CartRepo    cart.CartRepository
}

// NewNoOpTransactionScope creates a transaction scope that does not manage transactions
func NewNoOpTransactionScope(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	cartRepo cart.CartRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		CartRepo:    cartRepo,
	}
}

// Execute runs fn directly without transaction management
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.OrderRepository {
	return s.OrderRepo
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.ProductRepo
}

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() cart.CartRepository {
	return s.CartRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
