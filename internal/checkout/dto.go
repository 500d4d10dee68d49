package checkout

import "github.com/google/uuid"

// CheckoutRequest selects the delivery tier for the current cart.
type CheckoutRequest struct {
	ShippingOption string `json:"shipping_option" validate:"required"`
}

// CheckoutResponse hands the client everything needed to open the payment
// widget, plus the server-side figures so the on-screen totals cannot
// diverge from what was persisted.
type CheckoutResponse struct {
	OrderID      uuid.UUID `json:"order_id"`
	Token        string    `json:"token"`
	RedirectURL  string    `json:"redirect_url"`
	Subtotal     int64     `json:"subtotal"`
	ShippingCost int64     `json:"shipping_cost"`
	Total        int64     `json:"total"`
}
