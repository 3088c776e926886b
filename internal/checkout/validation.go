package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	msgMissingFields   = "Please fill in all mandatory fields: "
	msgInvalidMobile   = "Please enter a valid 10-digit mobile number."
	msgInvalidType     = "Address type must be Home or Work."
	msgSelectPayment   = "Please select a payment method to continue."
	fieldPaymentMethod = "paymentMethod"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateAddress checks the required fields first and the mobile length second,
// so a shopper is told about every empty field before anything else.
func validateAddress(v *validator.Validate, addr domain.ShippingAddress) error {
	err := v.Struct(addr)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing []string
	var mobileShort, badType bool
	for _, fe := range fieldErrs {
		switch {
		case fe.Tag() == "required":
			missing = append(missing, fe.Field())
		case fe.Field() == "mobile" && fe.Tag() == "min":
			mobileShort = true
		case fe.Field() == "addressType":
			badType = true
		}
	}

	switch {
	case len(missing) > 0:
		return &ValidationError{Fields: missing, Message: msgMissingFields + strings.Join(missing, ", ")}
	case mobileShort:
		return &ValidationError{Fields: []string{"mobile"}, Message: msgInvalidMobile}
	case badType:
		return &ValidationError{Fields: []string{"addressType"}, Message: msgInvalidType}
	}
	return err
}

func validatePayment(m domain.PaymentMethod) error {
	if !m.IsSet() {
		return &ValidationError{Fields: []string{fieldPaymentMethod}, Message: msgSelectPayment}
	}
	return nil
}
