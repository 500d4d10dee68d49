package checkout

import (
	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/enums"
)

// ShippingOptionDTO is one delivery tier offered at checkout.
type ShippingOptionDTO struct {
	Key   enums.ShippingOption `json:"key"`
	Label string               `json:"label"`
	Cost  int64                `json:"cost"`
}

const (
	labelRegular = "Reguler (2-4 hari)"
	labelExpress = "Express (1-2 hari)"
	labelInstant = "Instan (hari ini)"
)

// ShippingOptions lists the configured tiers in display order.
func ShippingOptions(cfg config.ShippingConfig) []ShippingOptionDTO {
	return []ShippingOptionDTO{
		{Key: enums.ShippingRegular, Label: labelRegular, Cost: cfg.RegularCost},
		{Key: enums.ShippingExpress, Label: labelExpress, Cost: cfg.ExpressCost},
		{Key: enums.ShippingInstant, Label: labelInstant, Cost: cfg.InstantCost},
	}
}

func shippingOptionFor(cfg config.ShippingConfig, key enums.ShippingOption) (ShippingOptionDTO, bool) {
	for _, opt := range ShippingOptions(cfg) {
		if opt.Key == key {
			return opt, true
		}
	}
	return ShippingOptionDTO{}, false
}
