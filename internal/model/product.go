package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Each product belongs to exactly one category;
// the category cannot be deleted while products reference it.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;index"`
	CategoryID  uint            `json:"category" gorm:"not null;index"`
	StockQty    uint            `json:"stock_qty" gorm:"not null;default:0"`
	ImageURL    string          `json:"image_url" gorm:"size:500"`
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
