package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/catalog"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	List(ctx context.Context) catalog.Listing
	Get(ctx context.Context, id string) (domain.Product, bool, error)
}

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewProductHandler(c Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{catalog: c, timeout: timeout}
}

type ProductResponseDTO struct {
	Product  domain.Product `json:"product"`
	DemoMode bool           `json:"demoMode"`
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.catalog.List(ctx))
}

// GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, demo, err := h.catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductResponseDTO{Product: product, DemoMode: demo})
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
