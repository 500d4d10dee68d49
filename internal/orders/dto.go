package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
)

// ItemSnapshot is one order line as captured at checkout. Changing or
// deleting the product afterwards does not touch these values.
type ItemSnapshot struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
}

type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address"`
	Items           []ItemSnapshot       `json:"items"`
	ShippingOption  enums.ShippingOption `json:"shipping_option"`
	ShippingLabel   string               `json:"shipping_label"`
	ShippingCost    int64                `json:"shipping_cost"`
	Subtotal        int64                `json:"subtotal"`
	Total           int64                `json:"total"`
	Status          enums.OrderStatus    `json:"status"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// SummaryDTO is the admin dashboard aggregate over all orders.
type SummaryDTO struct {
	TotalOrders   int64           `json:"total_orders"`
	PaidOrders    int64           `json:"paid_orders"`
	PendingOrders int64           `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageOrder  decimal.Decimal `json:"average_order"`
}

// UpdateStatusRequest is the admin payload for moving an order through
// fulfilment.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// MarshalItems serializes the line snapshot for storage on the order row.
func MarshalItems(items []ItemSnapshot) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal order items: %w", err)
	}
	return string(raw), nil
}

func FromModel(o *models.Order) (*OrderDTO, error) {
	if o == nil {
		return nil, nil
	}

	var items []ItemSnapshot
	if o.Items != "" {
		if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
			return nil, fmt.Errorf("unmarshal order %s items: %w", o.ID, err)
		}
	}

	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Items:           items,
		ShippingOption:  o.ShippingOption,
		ShippingLabel:   o.ShippingLabel,
		ShippingCost:    o.ShippingCost,
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Status:          o.Status,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
	}, nil
}

func FromModels(items []models.Order) ([]OrderDTO, error) {
	dtos := make([]OrderDTO, 0, len(items))
	for i := range items {
		dto, err := FromModel(&items[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
