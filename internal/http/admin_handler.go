package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/backend"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/spf13/cast"
)

type ProductUploader interface {
	AddProducts(ctx context.Context, products []domain.ProductInput) (int, error)
	CheckHealth(ctx context.Context) bool
	BaseURL() string
}

type AdminHandler struct {
	uploader ProductUploader
	describe func(error) string
	timeout  time.Duration
}

func NewAdminHandler(u ProductUploader, describe func(error) string, timeout time.Duration) *AdminHandler {
	return &AdminHandler{uploader: u, describe: describe, timeout: timeout}
}

// ProductFormDTO mirrors the seller form: numbers may arrive as strings and
// images as one comma-separated string.
type ProductFormDTO struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand"`
	Stock       interface{} `json:"stock"`
	Images      interface{} `json:"images"`
}

type AddProductsRequestDTO struct {
	Products []ProductFormDTO `json:"products"`
}

type AddProductsResponseDTO struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type HealthResponseDTO struct {
	Healthy bool   `json:"healthy"`
	BaseURL string `json:"baseUrl"`
}

// POST /api/v1/admin/products
func (h *AdminHandler) AddProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddProductsRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Products) == 0 {
		respondError(w, http.StatusBadRequest, "no_products", "at least one product is required")
		return
	}

	inputs := make([]domain.ProductInput, 0, len(req.Products))
	for i, p := range req.Products {
		in, err := p.toInput()
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_product", fmt.Sprintf("product %d: %v", i+1, err))
			return
		}
		inputs = append(inputs, in)
	}

	ctx = backend.WithToken(ctx, sessionFrom(r.Context()).Identity.Token())
	count, err := h.uploader.AddProducts(ctx, inputs)
	if err != nil {
		respondError(w, http.StatusBadGateway, "upload_failed", h.describe(err))
		return
	}
	respondJSON(w, http.StatusCreated, AddProductsResponseDTO{
		Count:   count,
		Message: fmt.Sprintf("Successfully added %d products to the database!", count),
	})
}

// GET /api/v1/admin/health
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponseDTO{
		Healthy: h.uploader.CheckHealth(r.Context()),
		BaseURL: h.uploader.BaseURL(),
	})
}

func (p ProductFormDTO) toInput() (domain.ProductInput, error) {
	price, err := formNumber(p.Price)
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("invalid price: %w", err)
	}
	stock, err := formNumber(p.Stock)
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("invalid stock: %w", err)
	}
	return domain.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Category:    p.Category,
		Brand:       p.Brand,
		Stock:       int(stock),
		Images:      splitImages(p.Images),
	}, nil
}

// formNumber treats a blank field as zero.
func formNumber(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		f, err := cast.ToFloat64E(s)
		return int64(f), err
	}
	if v == nil {
		return 0, nil
	}
	f, err := cast.ToFloat64E(v)
	return int64(f), err
}

func splitImages(v interface{}) []string {
	var parts []string
	switch t := v.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []interface{}:
		parts = cast.ToStringSlice(t)
	}
	images := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			images = append(images, p)
		}
	}
	return images
}
