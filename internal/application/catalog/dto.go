package catalog

import (
	"time"

	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Title         string           `json:"title" binding:"omitempty,max=200"`
	Description   string           `json:"description" binding:"required,max=2000"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Discount      *int             `json:"discount" binding:"omitempty,min=0,max=100"`
	Category      string           `json:"category" binding:"required"`
	Subcategory   string           `json:"subcategory" binding:"omitempty,max=100"`
	Image         string           `json:"image" binding:"required,max=500"`
	Images        []string         `json:"images"`
	Alt           string           `json:"alt" binding:"omitempty,max=200"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	Weight        string           `json:"weight" binding:"omitempty,max=50"`
	SKU           string           `json:"sku" binding:"omitempty,max=50"`
	Manufacturer  string           `json:"manufacturer" binding:"omitempty,max=100"`
	Tags          []string         `json:"tags"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Discount      *int             `json:"discount" binding:"omitempty,min=0,max=100"`
	Category      *string          `json:"category"`
	Subcategory   *string          `json:"subcategory" binding:"omitempty,max=100"`
	Image         *string          `json:"image" binding:"omitempty,max=500"`
	Images        []string         `json:"images"`
	Alt           *string          `json:"alt" binding:"omitempty,max=200"`
	Weight        *string          `json:"weight" binding:"omitempty,max=50"`
	SKU           *string          `json:"sku" binding:"omitempty,max=50"`
	Manufacturer  *string          `json:"manufacturer" binding:"omitempty,max=100"`
	Tags          []string         `json:"tags"`
}

// AddReviewRequest represents a request to review a product
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=500"`
}

// AdjustStockRequest represents an admin stock correction
type AdjustStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ListProductsQuery represents query parameters for the product listing
type ListProductsQuery struct {
	Category        string `form:"category" binding:"omitempty,oneof=fertilizer seeds tools pesticides organic"`
	Subcategory     string `form:"subcategory"`
	Search          string `form:"search"`
	MinPrice        string `form:"minPrice" binding:"omitempty,numeric"`
	MaxPrice        string `form:"maxPrice" binding:"omitempty,numeric"`
	IncludeInactive bool   `form:"includeInactive"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// ReviewResponse represents a product review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Title         string           `json:"title,omitempty"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice decimal.Decimal  `json:"originalPrice"`
	Discount      int              `json:"discount"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
	Alt           string           `json:"alt,omitempty"`
	Stars         decimal.Decimal  `json:"stars"`
	Reviews       []ReviewResponse `json:"reviews"`
	ReviewCount   int              `json:"reviewCount"`
	Stock         int              `json:"stock"`
	IsActive      bool             `json:"isActive"`
	Weight        string           `json:"weight,omitempty"`
	SKU           string           `json:"sku,omitempty"`
	Manufacturer  string           `json:"manufacturer,omitempty"`
	Tags          []string         `json:"tags"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ToProductResponse converts a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	reviews := make([]ReviewResponse, len(p.Reviews))
	for i := range p.Reviews {
		r := &p.Reviews[i]
		reviews[i] = ReviewResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}

	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Category:      string(p.Category),
		Subcategory:   p.Subcategory,
		Image:         p.Image,
		Images:        p.Images,
		Alt:           p.Alt,
		Stars:         p.Stars,
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		Weight:        p.Weight,
		SKU:           p.SKU,
		Manufacturer:  p.Manufacturer,
		Tags:          p.Tags,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
