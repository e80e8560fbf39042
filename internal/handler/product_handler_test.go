package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/errors"
)

func newListContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParseProductFilter(t *testing.T) {
	t.Run("full filter set", func(t *testing.T) {
		c := newListContext(t, "category=3&category_slug=Books&min_price=10&max_price=20&in_stock=true&is_active=false&search=go&ordering=-price")

		filter, err := parseProductFilter(c)
		assert.NoError(t, err)

		assert.Equal(t, uint(3), *filter.CategoryID)
		assert.Equal(t, "Books", filter.CategorySlug)
		assert.True(t, filter.MinPrice.Equal(decimal.NewFromInt(10)))
		assert.True(t, filter.MaxPrice.Equal(decimal.NewFromInt(20)))
		assert.True(t, *filter.InStock)
		assert.False(t, *filter.IsActive)
		assert.Equal(t, "go", filter.Search)
		assert.Equal(t, "-price", filter.Ordering)
	})

	t.Run("absent params leave predicates unset", func(t *testing.T) {
		c := newListContext(t, "")

		filter, err := parseProductFilter(c)
		assert.NoError(t, err)

		assert.Nil(t, filter.CategoryID)
		assert.Nil(t, filter.MinPrice)
		assert.Nil(t, filter.MaxPrice)
		assert.Nil(t, filter.InStock)
		assert.Nil(t, filter.IsActive)
	})

	t.Run("decimal price bounds", func(t *testing.T) {
		c := newListContext(t, "min_price=9.99")

		filter, err := parseProductFilter(c)
		assert.NoError(t, err)
		assert.True(t, filter.MinPrice.Equal(decimal.RequireFromString("9.99")))
	})

	invalid := []struct {
		name  string
		query string
		field string
	}{
		{name: "bad category id", query: "category=abc", field: "category"},
		{name: "bad min_price", query: "min_price=cheap", field: "min_price"},
		{name: "bad max_price", query: "max_price=12,50", field: "max_price"},
		{name: "bad in_stock", query: "in_stock=maybe", field: "in_stock"},
		{name: "bad is_active", query: "is_active=2x", field: "is_active"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			c := newListContext(t, tt.query)

			_, err := parseProductFilter(c)
			var vErr *errors.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}
