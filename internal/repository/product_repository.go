package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// ProductFilter narrows, searches and orders product listings. Nil pointer
// fields mean the predicate is not applied.
type ProductFilter struct {
	CategoryID   *uint
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStock      *bool
	IsActive     *bool
	Search       string
	Ordering     string
}

// productOrderings whitelists the sortable product columns.
var productOrderings = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"name":       "products.name",
	"stock_qty":  "products.stock_qty",
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	// The category is resolved by the caller; never upsert it through the
	// association.
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	// Slug match and search both predicate on the joined category.
	if filter.CategorySlug != "" || filter.Search != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id")
	}

	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		q = q.Where("LOWER(categories.slug) = LOWER(?)", filter.CategorySlug)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil && *filter.InStock {
		q = q.Where("products.stock_qty > 0")
	}
	if filter.IsActive != nil {
		q = q.Where("products.is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("products.name LIKE ? OR categories.name LIKE ?", like, like)
	}

	q = q.Order(orderClause(filter.Ordering, "-created_at", productOrderings))

	var products []model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// orderClause translates an ordering parameter ("price", "-created_at") into
// a SQL order clause, falling back to the default for unknown columns.
func orderClause(ordering, def string, allowed map[string]string) string {
	if ordering == "" {
		ordering = def
	}
	desc := strings.HasPrefix(ordering, "-")
	column, ok := allowed[strings.TrimPrefix(ordering, "-")]
	if !ok {
		desc = strings.HasPrefix(def, "-")
		column = allowed[strings.TrimPrefix(def, "-")]
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
