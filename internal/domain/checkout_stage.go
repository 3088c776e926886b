package domain

type CheckoutStage string

const (
	CheckoutStageCart           CheckoutStage = "cart"
	CheckoutStageAddress        CheckoutStage = "address"
	CheckoutStagePayment        CheckoutStage = "payment"
	CheckoutStageSubmitting     CheckoutStage = "submitting"
	CheckoutStageCompleted      CheckoutStage = "completed"
	CheckoutStageFailedFallback CheckoutStage = "failed-fallback"
)

var checkoutTransitions = map[CheckoutStage][]CheckoutStage{
	CheckoutStageCart:           {CheckoutStageAddress},
	CheckoutStageAddress:        {CheckoutStagePayment, CheckoutStageCart},
	CheckoutStagePayment:        {CheckoutStageSubmitting, CheckoutStageAddress},
	CheckoutStageSubmitting:     {CheckoutStageCompleted, CheckoutStageFailedFallback},
	CheckoutStageCompleted:      {CheckoutStageCart},
	CheckoutStageFailedFallback: {CheckoutStageCart},
}

// CanTransitionTo reports whether the wizard may move from one stage to the next.
func CanTransitionTo(from, to CheckoutStage) bool {
	for _, s := range checkoutTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal is true for the two outcomes of a submission. Both are reported
// to the shopper as a placed order.
func (s CheckoutStage) IsTerminal() bool {
	return s == CheckoutStageCompleted || s == CheckoutStageFailedFallback
}

// String representation (for logging)
func (s CheckoutStage) String() string {
	return string(s)
}
