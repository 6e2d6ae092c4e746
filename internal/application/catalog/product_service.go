package catalog

import (
	"context"

	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/identity"
	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, userRepo identity.UserRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product (admin)
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.SKU != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}

	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, catalog.Category(req.Category), req.Image)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		if err := product.Update(req.Name, req.Title, req.Description); err != nil {
			return nil, err
		}
	}

	if req.OriginalPrice != nil || req.Discount != nil {
		originalPrice := decimal.Zero
		if req.OriginalPrice != nil {
			originalPrice = *req.OriginalPrice
		}
		discount := 0
		if req.Discount != nil {
			discount = *req.Discount
		}
		if err := product.SetPricing(req.Price, originalPrice, discount); err != nil {
			return nil, err
		}
	}

	if req.Subcategory != "" {
		if err := product.SetCategory(catalog.Category(req.Category), req.Subcategory); err != nil {
			return nil, err
		}
	}

	if len(req.Images) > 0 || req.Alt != "" {
		if err := product.SetImages(req.Image, req.Images, req.Alt); err != nil {
			return nil, err
		}
	}

	if req.Weight != "" || req.SKU != "" || req.Manufacturer != "" || len(req.Tags) > 0 {
		if err := product.SetDetails(req.Weight, req.SKU, req.Manufacturer, req.Tags); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// GetByID returns a product with its reviews. Inactive products are
// still readable so existing order and cart views keep working.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns active products matching the query. Admins can opt in
// to inactive products with IncludeInactive.
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) (*shared.Paginated[*ProductResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = query.Search

	if !query.IncludeInactive {
		filter.Filters["is_active"] = true
	}
	if query.Category != "" {
		filter.Filters["category"] = query.Category
	}
	if query.Subcategory != "" {
		filter.Filters["subcategory"] = query.Subcategory
	}
	if query.MinPrice != "" {
		minPrice, err := decimal.NewFromString(query.MinPrice)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid minimum price")
		}
		filter.Filters["min_price"] = minPrice
	}
	if query.MaxPrice != "" {
		maxPrice, err := decimal.NewFromString(query.MaxPrice)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid maximum price")
		}
		filter.Filters["max_price"] = maxPrice
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates product fields; nil request fields are left unchanged (admin)
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil && *req.SKU != product.SKU && *req.SKU != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, *req.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}

	if req.Name != nil || req.Title != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		title := product.Title
		if req.Title != nil {
			title = *req.Title
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, title, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil || req.OriginalPrice != nil || req.Discount != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		originalPrice := product.OriginalPrice
		if req.OriginalPrice != nil {
			originalPrice = *req.OriginalPrice
		}
		discount := product.Discount
		if req.Discount != nil {
			discount = *req.Discount
		}
		if err := product.SetPricing(price, originalPrice, discount); err != nil {
			return nil, err
		}
	}

	if req.Category != nil || req.Subcategory != nil {
		category := product.Category
		if req.Category != nil {
			category = catalog.Category(*req.Category)
		}
		subcategory := product.Subcategory
		if req.Subcategory != nil {
			subcategory = *req.Subcategory
		}
		if err := product.SetCategory(category, subcategory); err != nil {
			return nil, err
		}
	}

	if req.Image != nil || req.Images != nil || req.Alt != nil {
		image := product.Image
		if req.Image != nil {
			image = *req.Image
		}
		images := []string(product.Images)
		if req.Images != nil {
			images = req.Images
		}
		alt := product.Alt
		if req.Alt != nil {
			alt = *req.Alt
		}
		if err := product.SetImages(image, images, alt); err != nil {
			return nil, err
		}
	}

	if req.Weight != nil || req.SKU != nil || req.Manufacturer != nil || req.Tags != nil {
		weight := product.Weight
		if req.Weight != nil {
			weight = *req.Weight
		}
		sku := product.SKU
		if req.SKU != nil {
			sku = *req.SKU
		}
		manufacturer := product.Manufacturer
		if req.Manufacturer != nil {
			manufacturer = *req.Manufacturer
		}
		tags := []string(product.Tags)
		if req.Tags != nil {
			tags = req.Tags
		}
		if err := product.SetDetails(weight, sku, manufacturer, tags); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Delete deactivates a product so it disappears from the storefront
// while staying referenced by past orders (admin)
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := product.Deactivate(); err != nil {
		return err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return err
	}

	s.publishEvents(ctx, product)

	return nil
}

// Activate puts a deactivated product back on the storefront (admin)
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// AddReview records a product review from a customer. The reviewer's
// display name is resolved from their account.
func (s *ProductService) AddReview(ctx context.Context, userID, productID uuid.UUID, req AddReviewRequest) (*ProductResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.AddReview(userID, user.Name, req.Rating, req.Comment); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return ToProductResponse(product), nil
}

// AdjustStock sets the absolute stock level (admin)
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}
