package domain

import "fmt"

type PaymentMethod string

const (
	PaymentMethodUnset          PaymentMethod = ""
	PaymentMethodDigitalWallet  PaymentMethod = "GPay"
	PaymentMethodCashOnDelivery PaymentMethod = "COD"
)

// ParsePaymentMethod accepts the wire values and the long names.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "GPay", "DigitalWallet":
		return PaymentMethodDigitalWallet, nil
	case "COD", "CashOnDelivery":
		return PaymentMethodCashOnDelivery, nil
	}
	return PaymentMethodUnset, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) IsSet() bool {
	return m == PaymentMethodDigitalWallet || m == PaymentMethodCashOnDelivery
}

func (m PaymentMethod) String() string {
	return string(m)
}
