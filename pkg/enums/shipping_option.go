package enums

import "fmt"

// ShippingOption is the delivery tier key selected at checkout.
type ShippingOption string

const (
	ShippingRegular ShippingOption = "regular"
	ShippingExpress ShippingOption = "express"
	ShippingInstant ShippingOption = "instant"
)

func (s ShippingOption) String() string {
	return string(s)
}

func (s ShippingOption) IsValid() bool {
	switch s {
	case ShippingRegular, ShippingExpress, ShippingInstant:
		return true
	}
	return false
}

func ParseShippingOption(value string) (ShippingOption, error) {
	s := ShippingOption(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid shipping option %q", value)
	}
	return s, nil
}
