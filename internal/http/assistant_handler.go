package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Assistant interface {
	SendMessage(ctx context.Context, text string) string
	Recommend(ctx context.Context, query string, products []domain.Product) (string, error)
	DeepDive(ctx context.Context, product domain.Product) (string, error)
}

type AssistantHandler struct {
	assistant Assistant
	catalog   Catalog
	timeout   time.Duration
}

func NewAssistantHandler(a Assistant, c Catalog, timeout time.Duration) *AssistantHandler {
	return &AssistantHandler{assistant: a, catalog: c, timeout: timeout}
}

type ChatRequestDTO struct {
	Message string `json:"message"`
}

type RecommendRequestDTO struct {
	Query string `json:"query"`
}

type ReplyResponseDTO struct {
	Reply string `json:"reply"`
}

// POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ChatRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message is required")
		return
	}
	respondJSON(w, http.StatusOK, ReplyResponseDTO{Reply: h.assistant.SendMessage(ctx, req.Message)})
}

// POST /api/v1/assistant/recommend
func (h *AssistantHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RecommendRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, "empty_query", "query is required")
		return
	}

	reply, err := h.assistant.Recommend(ctx, req.Query, h.catalog.List(ctx).Products)
	if err != nil {
		zap.L().Warn("recommendation failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "assistant_unavailable", "The assistant is unavailable right now.")
		return
	}
	respondJSON(w, http.StatusOK, ReplyResponseDTO{Reply: reply})
}

// GET /api/v1/assistant/products/{id}/pitch
func (h *AssistantHandler) Pitch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, _, err := h.catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	reply, err := h.assistant.DeepDive(ctx, product)
	if err != nil {
		zap.L().Warn("product pitch failed", zap.String("product_id", product.ID), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "assistant_unavailable", "The assistant is unavailable right now.")
		return
	}
	respondJSON(w, http.StatusOK, ReplyResponseDTO{Reply: reply})
}
