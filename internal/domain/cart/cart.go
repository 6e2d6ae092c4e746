package cart

import (
	"time"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart represents a user's shopping cart
// It is the aggregate root for cart operations; each user owns exactly one
type Cart struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalItems int             `gorm:"not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a line in the cart, unique per (product, size) pair
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Size      string          `gorm:"type:varchar(50)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"` // price captured at add time
	AddedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal returns quantity times the captured unit price
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCart creates an empty cart for the given user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
		TotalItems:        0,
		TotalPrice:        decimal.Zero,
	}
}

// AddItem adds a product to the cart, capturing its current price.
// Adding the same (product, size) pair again increments the existing line.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, size string, unitPrice decimal.Decimal) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	if existing := c.findItem(productID, size); existing != nil {
		existing.Quantity += quantity
		existing.UpdatedAt = time.Now()
	} else {
		c.Items = append(c.Items, CartItem{
			BaseEntity: shared.NewBaseEntity(),
			CartID:     c.ID,
			ProductID:  productID,
			Quantity:   quantity,
			Size:       size,
			UnitPrice:  unitPrice,
			AddedAt:    time.Now(),
		})
	}

	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, size string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID, size)
		return nil
	}

	item := c.findItem(productID, size)
	if item == nil {
		return shared.ErrItemNotFound
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now()

	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RemoveItem removes the (product, size) line; it is a no-op when absent
func (c *Cart) RemoveItem(productID uuid.UUID, size string) {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}

	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsEmpty returns true if the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the line matching (product, size), or nil
func (c *Cart) FindItem(productID uuid.UUID, size string) *CartItem {
	return c.findItem(productID, size)
}

func (c *Cart) findItem(productID uuid.UUID, size string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].Size == size {
			return &c.Items[i]
		}
	}
	return nil
}

// recalculateTotals refreshes the derived totals from the lines.
// TotalItems is the sum of quantities; TotalPrice the sum of line totals.
func (c *Cart) recalculateTotals() {
	totalItems := 0
	totalPrice := decimal.Zero
	for i := range c.Items {
		totalItems += c.Items[i].Quantity
		totalPrice = totalPrice.Add(c.Items[i].LineTotal())
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
}
