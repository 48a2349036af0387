package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	SKU           string    `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	Description   string    `gorm:"size:1000" json:"description,omitempty"`
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"not null;default:0" json:"stockQuantity"`
	MinStockLevel int       `gorm:"not null;default:0" json:"minStockLevel"`
	CategoryID    string    `gorm:"size:36;index;not null" json:"categoryId"`
	ImageURL      string    `gorm:"size:500" json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
