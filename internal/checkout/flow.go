package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Cart is the part of the cart store the wizard reads and clears.
type Cart interface {
	Lines() []domain.CartLine
	Total() int64
	Len() int
	Clear()
}

// OrderSubmitter persists a placed order with the backend.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, order domain.Order) error
}

// OrderListener is handed every placed order, synced or not.
type OrderListener interface {
	OrderPlaced(ctx context.Context, order domain.Order)
}

// Snapshot is a read-only view of the wizard.
type Snapshot struct {
	Stage         domain.CheckoutStage   `json:"stage"`
	Address       domain.ShippingAddress `json:"address"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod,omitempty"`
	Submitting    bool                   `json:"submitting"`
	Order         *domain.Order          `json:"order,omitempty"`
	Warning       string                 `json:"warning,omitempty"`
}

// Flow is the cart → address → payment wizard for a single session.
type Flow struct {
	mu        sync.Mutex
	cart      Cart
	submitter OrderSubmitter
	listeners []OrderListener
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	newID     func() (string, error)
	describe  func(error) string

	stage      domain.CheckoutStage
	draft      domain.ShippingAddress
	method     domain.PaymentMethod
	submitting bool
	order      *domain.Order
	warning    string
}

type Option func(*Flow)

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

func WithOrderIDGenerator(gen func() (string, error)) Option {
	return func(f *Flow) { f.newID = gen }
}

// WithErrorDescriber sets how a submission error is worded in the fallback warning.
func WithErrorDescriber(fn func(error) string) Option {
	return func(f *Flow) { f.describe = fn }
}

func WithOrderListener(l OrderListener) Option {
	return func(f *Flow) { f.listeners = append(f.listeners, l) }
}

func NewFlow(cart Cart, submitter OrderSubmitter, opts ...Option) *Flow {
	f := &Flow{
		cart:      cart,
		submitter: submitter,
		validate:  newValidator(),
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     NewOrderID,
		describe:  func(err error) string { return err.Error() },
		stage:     domain.CheckoutStageCart,
		draft:     domain.NewShippingAddress(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{
		Stage:         f.stage,
		Address:       f.draft,
		PaymentMethod: f.method,
		Submitting:    f.submitting,
		Warning:       f.warning,
	}
	if f.order != nil {
		o := *f.order
		s.Order = &o
	}
	return s
}

func (f *Flow) Stage() domain.CheckoutStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Begin moves from the cart review to the address form.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage.IsTerminal() {
		f.resetLocked()
	}
	if err := f.transitionLocked(domain.CheckoutStageAddress); err != nil {
		return err
	}
	if f.cart.Len() == 0 {
		return ErrEmptyCart
	}
	f.stage = domain.CheckoutStageAddress
	return nil
}

// SetAddress replaces the address draft. Only allowed on the address stage.
func (f *Flow) SetAddress(addr domain.ShippingAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != domain.CheckoutStageAddress {
		return fmt.Errorf("%w: address is read-only in stage %s", ErrIllegalTransition, f.stage)
	}
	if addr.AddressType == "" {
		addr.AddressType = domain.AddressTypeHome
	}
	f.draft = addr
	return nil
}

// UpdateAddressField edits one field of the draft by its JSON name.
func (f *Flow) UpdateAddressField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != domain.CheckoutStageAddress {
		return fmt.Errorf("%w: address is read-only in stage %s", ErrIllegalTransition, f.stage)
	}
	d := &f.draft
	switch name {
	case "name":
		d.Name = value
	case "mobile":
		d.Mobile = value
	case "pincode":
		d.Pincode = value
	case "locality":
		d.Locality = value
	case "address":
		d.Address = value
	case "city":
		d.City = value
	case "state":
		d.State = value
	case "landmark":
		d.Landmark = value
	case "altMobile":
		d.AltMobile = value
	case "addressType":
		d.AddressType = domain.AddressType(value)
	default:
		return &ValidationError{Fields: []string{name}, Message: fmt.Sprintf("Unknown address field %q.", name)}
	}
	return nil
}

// ConfirmAddress validates the draft and moves to payment. On a validation
// failure the wizard stays on the address stage.
func (f *Flow) ConfirmAddress() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.transitionLocked(domain.CheckoutStagePayment); err != nil {
		return err
	}
	if err := validateAddress(f.validate, f.draft); err != nil {
		return err
	}
	f.stage = domain.CheckoutStagePayment
	return nil
}

// Back steps one stage backwards: payment → address or address → cart.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.stage {
	case domain.CheckoutStagePayment:
		f.stage = domain.CheckoutStageAddress
	case domain.CheckoutStageAddress:
		f.stage = domain.CheckoutStageCart
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrIllegalTransition, f.stage)
	}
	return nil
}

func (f *Flow) SelectPayment(m domain.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != domain.CheckoutStagePayment {
		return fmt.Errorf("%w: payment cannot be selected in stage %s", ErrIllegalTransition, f.stage)
	}
	f.method = m
	return nil
}

// PlaceOrder submits the order. A failing submitter does not fail the call:
// the order is kept locally, marked unsynced, and the wizard ends in
// failed-fallback with a warning. In both outcomes the cart is cleared and the
// order is handed to the listeners.
func (f *Flow) PlaceOrder(ctx context.Context) (domain.Order, error) {
	order, err := f.startSubmission()
	if err != nil {
		return domain.Order{}, err
	}

	submitErr := f.submitter.CreateOrder(ctx, order)

	f.mu.Lock()
	f.submitting = false
	if submitErr != nil {
		order.Synced = false
		order.SyncError = f.describe(submitErr)
		f.stage = domain.CheckoutStageFailedFallback
		f.warning = fmt.Sprintf(
			"We couldn't sync with the database (%s). Your order has been placed locally. Tracking ID: %s",
			order.SyncError, order.ID)
		f.logger.Warn("order submission failed, placed locally",
			zap.String("order_id", order.ID), zap.Error(submitErr))
	} else {
		order.Synced = true
		f.stage = domain.CheckoutStageCompleted
		f.warning = ""
		f.logger.Info("order placed", zap.String("order_id", order.ID), zap.Int64("total", order.Total))
	}
	placed := order
	f.order = &placed
	listeners := append([]OrderListener(nil), f.listeners...)
	f.mu.Unlock()

	f.cart.Clear()
	for _, l := range listeners {
		l.OrderPlaced(ctx, order)
	}
	return order, nil
}

func (f *Flow) startSubmission() (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return domain.Order{}, ErrSubmissionInFlight
	}
	if err := f.transitionLocked(domain.CheckoutStageSubmitting); err != nil {
		return domain.Order{}, err
	}
	if err := validatePayment(f.method); err != nil {
		return domain.Order{}, err
	}
	if f.cart.Len() == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	id, err := f.newID()
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:            id,
		Items:         f.cart.Lines(),
		Address:       f.draft,
		PaymentMethod: f.method,
		Total:         f.cart.Total() + domain.HandlingFee,
		Status:        domain.OrderStatusOrdered,
		CreatedAt:     f.now().UTC(),
	}
	f.stage = domain.CheckoutStageSubmitting
	f.submitting = true
	return order, nil
}

// Reset discards the attempt and returns to the cart stage. A submission in
// flight cannot be reset.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrSubmissionInFlight
	}
	f.resetLocked()
	return nil
}

// OnCartChanged resets an unfinished attempt once the cart empties. Terminal
// stages are kept so the outcome stays visible until Reset.
func (f *Flow) OnCartChanged(lines []domain.CartLine) {
	if len(lines) > 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage == domain.CheckoutStageAddress || f.stage == domain.CheckoutStagePayment {
		f.resetLocked()
	}
}

func (f *Flow) resetLocked() {
	f.stage = domain.CheckoutStageCart
	f.draft = domain.NewShippingAddress()
	f.method = domain.PaymentMethodUnset
	f.warning = ""
	f.order = nil
}

func (f *Flow) transitionLocked(to domain.CheckoutStage) error {
	if !domain.CanTransitionTo(f.stage, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.stage, to)
	}
	return nil
}
