package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buahsegar/storefront-backend/pkg/enums"
)

// User represents the canonical shopper identity.
type User struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Email        string      `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string      `gorm:"column:password_hash;not null"`
	DisplayName  string      `gorm:"column:display_name;not null"`
	Phone        *string     `gorm:"column:phone"`
	Address      *string     `gorm:"column:address"`
	Role         enums.Role  `gorm:"column:role;not null;default:user"`
	LastLoginAt  *time.Time  `gorm:"column:last_login_at"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
