package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buahsegar/storefront-backend/pkg/enums"
)

// Order is an immutable snapshot taken at checkout. Items is the
// JSON-serialized line item list; only Status (and PaidAt) change after
// creation.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerEmail   string               `gorm:"column:customer_email;not null"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null;default:''"`
	CustomerAddress string               `gorm:"column:customer_address;not null;default:''"`
	Items           string               `gorm:"column:items;not null"`
	ShippingOption  enums.ShippingOption `gorm:"column:shipping_option;not null"`
	ShippingLabel   string               `gorm:"column:shipping_label;not null"`
	ShippingCost    int64                `gorm:"column:shipping_cost;not null"`
	Subtotal        int64                `gorm:"column:subtotal;not null"`
	Total           int64                `gorm:"column:total;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:pending"`
	PaidAt          *time.Time           `gorm:"column:paid_at"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
