package domain

type AddressType string

const (
	AddressTypeHome AddressType = "Home"
	AddressTypeWork AddressType = "Work"
)

// ShippingAddress is the delivery address collected during checkout.
type ShippingAddress struct {
	Name        string      `json:"name" validate:"required"`
	Mobile      string      `json:"mobile" validate:"required,min=10"`
	Pincode     string      `json:"pincode" validate:"required"`
	Locality    string      `json:"locality" validate:"required"`
	Address     string      `json:"address" validate:"required"`
	City        string      `json:"city" validate:"required"`
	State       string      `json:"state" validate:"required"`
	Landmark    string      `json:"landmark,omitempty"`
	AltMobile   string      `json:"altMobile,omitempty"`
	AddressType AddressType `json:"addressType" validate:"omitempty,oneof=Home Work"`
}

// NewShippingAddress returns an empty draft with the default address type.
func NewShippingAddress() ShippingAddress {
	return ShippingAddress{AddressType: AddressTypeHome}
}
