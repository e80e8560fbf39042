package model

import "time"

// Category groups products. Name and slug are each globally unique.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:120;not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:140;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Products []Product `json:"-" gorm:"foreignKey:CategoryID"`
}
