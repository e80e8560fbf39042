package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// CreateProductRequest represents a product creation request. Price, category
// and stock_qty are pointers so a present zero survives the required check.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Category    *uint            `json:"category" validate:"required"`
	StockQty    *uint            `json:"stock_qty" validate:"required"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateProductRequest represents a partial product update request.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *uint            `json:"category"`
	StockQty    *uint            `json:"stock_qty"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// ProductResponse is a product read payload with the category name
// denormalized from the linked category.
type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     uint            `json:"category"`
	CategoryName string          `json:"category_name"`
	StockQty     uint            `json:"stock_qty"`
	ImageURL     string          `json:"image_url"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.CategoryID,
		CategoryName: p.Category.Name,
		StockQty:     p.StockQty,
		ImageURL:     p.ImageURL,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// parseProductFilter translates list query parameters into record predicates.
func parseProductFilter(c echo.Context) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		CategorySlug: c.QueryParam("category_slug"),
		Search:       c.QueryParam("search"),
		Ordering:     c.QueryParam("ordering"),
	}

	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, errors.NewValidationError("category", "must be a valid category id")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if v := c.QueryParam("min_price"); v != "" {
		minPrice, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.NewValidationError("min_price", "must be a valid number")
		}
		filter.MinPrice = &minPrice
	}
	if v := c.QueryParam("max_price"); v != "" {
		maxPrice, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.NewValidationError("max_price", "must be a valid number")
		}
		filter.MaxPrice = &maxPrice
	}
	if v := c.QueryParam("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.NewValidationError("in_stock", "must be a boolean")
		}
		filter.InStock = &inStock
	}
	if v := c.QueryParam("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.NewValidationError("is_active", "must be a boolean")
		}
		filter.IsActive = &isActive
	}

	return filter, nil
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param category query int false "Exact category id"
// @Param category_slug query string false "Case-insensitive category slug"
// @Param min_price query number false "Inclusive lower price bound"
// @Param max_price query number false "Inclusive upper price bound"
// @Param in_stock query bool false "true returns only products with stock_qty > 0"
// @Param is_active query bool false "Exact match on the active flag"
// @Param search query string false "Substring match on product or category name"
// @Param ordering query string false "Sort column: created_at, price, name, stock_qty; prefix with - for descending"
// @Success 200 {array} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return domainError(err)
	}

	products, err := h.svc.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product data"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.CreateProduct(c.Request().Context(), service.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  *req.Category,
		StockQty:    *req.StockQty,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// GetProduct godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body UpdateProductRequest true "Product fields"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.UpdateProduct(c.Request().Context(), id, service.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.Category,
		StockQty:    req.StockQty,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteProduct(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
