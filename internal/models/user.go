package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	// PasswordHash is empty for federated (Google) accounts.
	PasswordHash string       `gorm:"size:255" json:"-"`
	Name         string       `gorm:"size:100;not null" json:"name"`
	Role         UserRole     `gorm:"size:20;not null;default:user" json:"role"`
	ExternalID   string       `gorm:"size:100;index" json:"externalId,omitempty"`
	Provider     AuthProvider `gorm:"size:20;not null;default:local" json:"provider"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
