package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only ledger entry; rows are never updated
// or deleted once written.
type StockMovement struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	ProductID string       `gorm:"size:36;index;not null" json:"productId"`
	Type      MovementType `gorm:"size:20;not null" json:"type"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	Reason    string       `gorm:"size:255" json:"reason,omitempty"`
	UserID    string       `gorm:"size:36;index;not null" json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
