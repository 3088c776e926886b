package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/backend"
	"github.com/Nivash8098/E-Commerece-Website/internal/checkout"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

type CheckoutHandler struct {
	timeout time.Duration
}

func NewCheckoutHandler(timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{timeout: timeout}
}

type AddressFieldRequestDTO struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type PaymentRequestDTO struct {
	PaymentMethod string `json:"paymentMethod"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r.Context()).Checkout.Snapshot())
}

// POST /api/v1/checkout/begin
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(f *checkout.Flow) error { return f.Begin() })
}

// PUT /api/v1/checkout/address
func (h *CheckoutHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req domain.ShippingAddress
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.step(w, r, func(f *checkout.Flow) error { return f.SetAddress(req) })
}

// PATCH /api/v1/checkout/address
func (h *CheckoutHandler) UpdateAddressField(w http.ResponseWriter, r *http.Request) {
	var req AddressFieldRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.step(w, r, func(f *checkout.Flow) error { return f.UpdateAddressField(req.Field, req.Value) })
}

// POST /api/v1/checkout/address/confirm
func (h *CheckoutHandler) ConfirmAddress(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(f *checkout.Flow) error { return f.ConfirmAddress() })
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(f *checkout.Flow) error { return f.Back() })
}

// PUT /api/v1/checkout/payment
func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
		return
	}
	h.step(w, r, func(f *checkout.Flow) error { return f.SelectPayment(method) })
}

// POST /api/v1/checkout/place
//
// A backend failure still answers 201: the order is placed locally and the
// snapshot carries the warning.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s := sessionFrom(r.Context())
	ctx = backend.WithToken(ctx, s.Identity.Token())

	if _, err := s.Checkout.PlaceOrder(ctx); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.Checkout.Snapshot())
}

// POST /api/v1/checkout/reset
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(f *checkout.Flow) error { return f.Reset() })
}

func (h *CheckoutHandler) step(w http.ResponseWriter, r *http.Request, fn func(*checkout.Flow) error) {
	flow := sessionFrom(r.Context()).Checkout
	if err := fn(flow); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  vErr.Message,
			Code:   "validation_failed",
			Fields: vErr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
