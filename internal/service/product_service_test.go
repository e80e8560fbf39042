package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/model"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductService_CreateProduct(t *testing.T) {
	books := &model.Category{ID: 2, Name: "Books", Slug: "books"}

	tests := []struct {
		name        string
		price       string
		categoryID  uint
		category    *model.Category
		categoryErr error
		wantField   string
	}{
		{
			name:       "success",
			price:      "19.99",
			categoryID: 2,
			category:   books,
		},
		{
			name:       "zero price is accepted",
			price:      "0",
			categoryID: 2,
			category:   books,
		},
		{
			name:       "negative price is rejected",
			price:      "-0.01",
			categoryID: 2,
			category:   books,
			wantField:  "price",
		},
		{
			name:        "unknown category is rejected",
			price:       "19.99",
			categoryID:  99,
			categoryErr: gorm.ErrRecordNotFound,
			wantField:   "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo := new(MockProductRepository)
			productRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

			categoryRepo := new(MockCategoryRepository)
			categoryRepo.On("FindByID", mock.Anything, tt.categoryID).Return(tt.category, tt.categoryErr)

			svc := NewProductService(productRepo, categoryRepo, nil)
			product, err := svc.CreateProduct(context.Background(), CreateProductParams{
				Name:       "Paperback",
				Price:      decimal.RequireFromString(tt.price),
				CategoryID: tt.categoryID,
				StockQty:   3,
			})

			if tt.wantField != "" {
				var vErr *errors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Fields, tt.wantField)
				productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Paperback", product.Name)
			assert.True(t, product.IsActive)
			assert.Equal(t, "Books", product.Category.Name)
		})
	}
}

func TestProductService_CreateProduct_InactiveFlag(t *testing.T) {
	productRepo := new(MockProductRepository)
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2, Name: "Books"}, nil)

	svc := NewProductService(productRepo, categoryRepo, nil)
	product, err := svc.CreateProduct(context.Background(), CreateProductParams{
		Name:       "Paperback",
		Price:      decimal.NewFromInt(5),
		CategoryID: 2,
		IsActive:   boolPtr(false),
	})

	assert.NoError(t, err)
	assert.False(t, product.IsActive)
}

func TestProductService_UpdateProduct(t *testing.T) {
	existing := func() *model.Product {
		return &model.Product{
			ID:         4,
			Name:       "Paperback",
			Price:      decimal.NewFromInt(10),
			CategoryID: 2,
			StockQty:   3,
			IsActive:   true,
			Category:   model.Category{ID: 2, Name: "Books", Slug: "books"},
		}
	}

	t.Run("negative price rejected", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, uint(4)).Return(existing(), nil)

		svc := NewProductService(productRepo, new(MockCategoryRepository), nil)
		_, err := svc.UpdateProduct(context.Background(), 4, UpdateProductParams{Price: decPtr("-1")})

		var vErr *errors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "price")
		productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("category change resolves new category", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, uint(4)).Return(existing(), nil)
		productRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.Category{ID: 9, Name: "Games", Slug: "games"}, nil)

		svc := NewProductService(productRepo, categoryRepo, nil)
		catID := uint(9)
		product, err := svc.UpdateProduct(context.Background(), 4, UpdateProductParams{CategoryID: &catID})

		assert.NoError(t, err)
		assert.Equal(t, uint(9), product.CategoryID)
		assert.Equal(t, "Games", product.Category.Name)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, uint(4)).Return(existing(), nil)

		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProductService(productRepo, categoryRepo, nil)
		catID := uint(99)
		_, err := svc.UpdateProduct(context.Background(), 4, UpdateProductParams{CategoryID: &catID})

		var vErr *errors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "category")
	})

	t.Run("unknown product", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProductService(productRepo, new(MockCategoryRepository), nil)
		_, err := svc.UpdateProduct(context.Background(), 404, UpdateProductParams{})
		assert.ErrorIs(t, err, errors.ErrProductNotFound)
	})
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	productRepo.On("Delete", mock.Anything, uint(404)).Return(gorm.ErrRecordNotFound)

	svc := NewProductService(productRepo, new(MockCategoryRepository), nil)
	err := svc.DeleteProduct(context.Background(), 404)
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
}
