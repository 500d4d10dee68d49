package cart

import (
	"github.com/google/uuid"

	"github.com/buahsegar/storefront-backend/pkg/db/models"
)

// CartItemDTO is one line of the cart as returned to clients.
type CartItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
}

// CartDTO is the full cart view with derived totals.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Items     []CartItemDTO `json:"items"`
	Subtotal  int64         `json:"subtotal"`
	ItemCount int           `json:"item_count"`
}

// AddItemRequest adds a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateQuantityRequest replaces a line's quantity. Values below one are
// ignored and leave the cart unchanged.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// FromModel derives the transport view, including subtotal and item count.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}

	dto := &CartDTO{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  make([]CartItemDTO, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		lineTotal := item.UnitPrice * int64(item.Quantity)
		dto.Items = append(dto.Items, CartItemDTO{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			UnitPrice: item.UnitPrice,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		dto.Subtotal += lineTotal
		dto.ItemCount += item.Quantity
	}
	return dto
}
