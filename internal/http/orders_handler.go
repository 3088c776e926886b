package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/Nivash8098/E-Commerece-Website/internal/tracking"
	"github.com/go-chi/chi/v5"
)

type Tracker interface {
	Status(ctx context.Context, id string) (tracking.Tracking, error)
}

type OrdersHandler struct {
	tracker Tracker
	timeout time.Duration
}

func NewOrdersHandler(t Tracker, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{tracker: t, timeout: timeout}
}

// GET /api/v1/orders/{id}/tracking
func (h *OrdersHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	t, err := h.tracker.Status(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "Order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, t)
}
