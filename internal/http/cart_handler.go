package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewCartHandler(c Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{catalog: c, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, domain.Summarize(s.Cart.State()))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	product, _, err := h.catalog.Get(ctx, req.ProductID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	s := sessionFrom(r.Context())
	s.Cart.AddItem(product)
	respondJSON(w, http.StatusCreated, domain.Summarize(s.Cart.State()))
}

// PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	s := sessionFrom(r.Context())
	s.Cart.UpdateQuantity(chi.URLParam(r, "id"), *req.Quantity)
	respondJSON(w, http.StatusOK, domain.Summarize(s.Cart.State()))
}

// DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Cart.RemoveItem(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, domain.Summarize(s.Cart.State()))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Cart.Clear()
	respondJSON(w, http.StatusOK, domain.Summarize(s.Cart.State()))
}
