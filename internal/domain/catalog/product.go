package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/agrimart/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents the product category
type Category string

const (
	CategoryFertilizer Category = "fertilizer"
	CategorySeeds      Category = "seeds"
	CategoryTools      Category = "tools"
	CategoryPesticides Category = "pesticides"
	CategoryOrganic    Category = "organic"
)

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryFertilizer, CategorySeeds, CategoryTools, CategoryPesticides, CategoryOrganic:
		return true
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// StringList stores a list of strings as a JSON column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Product represents an item in the store catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null;index"`
	Title         string          `gorm:"type:varchar(200)"`
	Description   string          `gorm:"type:text;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Discount      int             `gorm:"not null;default:0"` // percentage 0-100
	Category      Category        `gorm:"type:varchar(20);not null;index"`
	Subcategory   string          `gorm:"type:varchar(100);index"`
	Image         string          `gorm:"type:varchar(500);not null"`
	Images        StringList      `gorm:"type:jsonb"`
	Alt           string          `gorm:"type:varchar(200)"`
	Stars         decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0"`
	Reviews       []Review        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Stock         int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true;index"`
	Weight        string          `gorm:"type:varchar(50)"`
	SKU           string          `gorm:"type:varchar(50);uniqueIndex"`
	Manufacturer  string          `gorm:"type:varchar(200)"`
	Tags          StringList      `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Review is a customer review attached to a product
type Review struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName  string    `gorm:"type:varchar(50);not null"`
	Rating    int       `gorm:"not null"` // 1-5
	Comment   string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "product_reviews"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, category Category, image string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category: %s", category))
	}
	if strings.TrimSpace(image) == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Product image cannot be empty")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       strings.TrimSpace(description),
		Price:             price,
		OriginalPrice:     price,
		Category:          category,
		Image:             strings.TrimSpace(image),
		Stars:             decimal.Zero,
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, title, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if err := validateDescription(description); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Title = strings.TrimSpace(title)
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPricing updates price, original price and discount percentage
func (p *Product) SetPricing(price, originalPrice decimal.Decimal, discount int) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if originalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Original price cannot be negative")
	}
	if discount < 0 || discount > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	p.Price = price
	p.OriginalPrice = originalPrice
	p.Discount = discount
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory updates the category and subcategory
func (p *Product) SetCategory(category Category, subcategory string) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown category: %s", category))
	}
	if len(subcategory) > 100 {
		return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory cannot exceed 100 characters")
	}

	p.Category = category
	p.Subcategory = strings.TrimSpace(subcategory)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImages updates the primary image, gallery and alt text
func (p *Product) SetImages(image string, images []string, alt string) error {
	if strings.TrimSpace(image) == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Product image cannot be empty")
	}

	p.Image = strings.TrimSpace(image)
	p.Images = images
	p.Alt = strings.TrimSpace(alt)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDetails updates optional descriptive fields
func (p *Product) SetDetails(weight, sku, manufacturer string, tags []string) error {
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}

	p.Weight = strings.TrimSpace(weight)
	p.SKU = strings.ToUpper(strings.TrimSpace(sku))
	p.Manufacturer = strings.TrimSpace(manufacturer)
	p.Tags = tags
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock replaces the stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// HasSufficientStock returns true if at least quantity units are available
func (p *Product) HasSufficientStock(quantity int) bool {
	return p.Stock >= quantity
}

// AddReview attaches a customer review and refreshes the rating aggregate
func (p *Product) AddReview(userID uuid.UUID, userName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(comment) > 500 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 500 characters")
	}

	review := Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		UserID:     userID,
		UserName:   userName,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	p.Reviews = append(p.Reviews, review)
	p.recalculateStars()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductReviewAddedEvent(p, &review))

	return nil
}

// recalculateStars refreshes Stars from the attached reviews
// Mean rating rounded to one decimal place; zero when no reviews exist
func (p *Product) recalculateStars() {
	if len(p.Reviews) == 0 {
		p.Stars = decimal.Zero
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Stars = decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(p.Reviews)))).
		Round(1)
}

// Activate restores a soft-deleted product
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p))

	return nil
}

// Deactivate soft-deletes the product; it stays referenced by past orders
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p))

	return nil
}

// GetPriceMoney returns the selling price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Price)
}

// ReviewCount returns the number of attached reviews
func (p *Product) ReviewCount() int {
	return len(p.Reviews)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 100 characters")
	}
	return nil
}

// validateDescription validates the product description
func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot exceed 2000 characters")
	}
	return nil
}
