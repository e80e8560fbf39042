package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// CreateProductParams carries the fields of a new product.
type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
	StockQty    uint
	ImageURL    string
	IsActive    *bool
}

// UpdateProductParams carries the updatable product fields. Nil means unchanged.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uint
	StockQty    *uint
	ImageURL    *string
	IsActive    *bool
}

// ProductService exposes product management operations.
type ProductService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, params UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewProductService builds a ProductService with repositories and cache.
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *productService) cacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.repo.List(ctx, filter)
}

// productCacheEntry carries the linked category explicitly since the model
// excludes it from JSON.
type productCacheEntry struct {
	Product  model.Product  `json:"product"`
	Category model.Category `json:"category"`
}

// GetProduct retrieves a product by ID with caching. The linked category is
// always loaded so responses can denormalize the category name.
func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached productCacheEntry
		if err := json.Unmarshal(data, &cached); err == nil {
			product := cached.Product
			product.Category = cached.Category
			return &product, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	entry := productCacheEntry{Product: *product, Category: product.Category}
	if payload, err := json.Marshal(entry); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, productCacheTTL)
	}
	return product, nil
}

// CreateProduct validates and creates a product.
func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (*model.Product, error) {
	if params.Price.IsNegative() {
		return nil, errors.NewValidationError("price", "price cannot be negative")
	}
	category, err := s.resolveCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		CategoryID:  category.ID,
		StockQty:    params.StockQty,
		ImageURL:    params.ImageURL,
		IsActive:    true,
	}
	if params.IsActive != nil {
		product.IsActive = *params.IsActive
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	product.Category = *category
	return product, nil
}

// UpdateProduct applies a partial update after re-validating price and
// category reference.
func (s *productService) UpdateProduct(ctx context.Context, id uint, params UpdateProductParams) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	if params.Price != nil {
		if params.Price.IsNegative() {
			return nil, errors.NewValidationError("price", "price cannot be negative")
		}
		product.Price = *params.Price
	}
	if params.CategoryID != nil && *params.CategoryID != product.CategoryID {
		category, err := s.resolveCategory(ctx, *params.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.Category = *category
	}
	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.StockQty != nil {
		product.StockQty = *params.StockQty
	}
	if params.ImageURL != nil {
		product.ImageURL = *params.ImageURL
	}
	if params.IsActive != nil {
		product.IsActive = *params.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrProductNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// resolveCategory maps a category reference in a write payload to an existing
// category, surfacing a field-keyed error for unknown ids.
func (s *productService) resolveCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewValidationError("category", "category does not exist")
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	return category, nil
}
