package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		ordering string
		want     string
	}{
		{name: "default newest first", ordering: "", want: "products.created_at DESC"},
		{name: "ascending price", ordering: "price", want: "products.price ASC"},
		{name: "descending price", ordering: "-price", want: "products.price DESC"},
		{name: "stock quantity", ordering: "stock_qty", want: "products.stock_qty ASC"},
		{name: "descending name", ordering: "-name", want: "products.name DESC"},
		{name: "unknown column falls back", ordering: "password_hash", want: "products.created_at DESC"},
		{name: "unknown descending column falls back", ordering: "-password_hash", want: "products.created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.ordering, "-created_at", productOrderings))
		})
	}
}

func TestOrderClause_Categories(t *testing.T) {
	assert.Equal(t, "name ASC", orderClause("", "name", categoryOrderings))
	assert.Equal(t, "created_at DESC", orderClause("-created_at", "name", categoryOrderings))
	assert.Equal(t, "name ASC", orderClause("slug", "name", categoryOrderings))
}
