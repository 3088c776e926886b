package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout stage")
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
)

// ValidationError blocks a transition and carries a message meant for the shopper.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
