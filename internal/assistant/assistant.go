package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-3-flash-preview"

	systemInstruction = "You are the GenCart AI Assistant. Help users find products, answer questions about shopping, and provide helpful advice. Be concise and use emojis where appropriate."

	connectionApology = "I am having trouble connecting right now. Please try again later."
	emptyReplyApology = "Sorry, I encountered an issue."

	recommendTemperature float32 = 0.7
)

var (
	ErrNotConfigured = errors.New("assistant is not configured")
	ErrEmptyReply    = errors.New("assistant returned an empty reply")
)

// Generator produces a single text completion.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

// Assistant answers shopping questions. Every call is stateless.
type Assistant struct {
	gen    Generator
	logger *zap.Logger
}

func New(gen Generator, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{gen: gen, logger: logger}
}

// SendMessage never fails: errors become a fixed apology.
func (a *Assistant) SendMessage(ctx context.Context, text string) string {
	if a.gen == nil {
		return connectionApology
	}
	reply, err := a.gen.Generate(ctx, text, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		a.logger.Warn("assistant chat failed", zap.Error(err))
		return connectionApology
	}
	if strings.TrimSpace(reply) == "" {
		return emptyReplyApology
	}
	return reply
}

type productBrief struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// Recommend suggests one or two of products for a free-text query.
func (a *Assistant) Recommend(ctx context.Context, query string, products []domain.Product) (string, error) {
	briefs := make([]productBrief, len(products))
	for i, p := range products {
		briefs[i] = productBrief{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
	}
	list, err := json.Marshal(briefs)
	if err != nil {
		return "", fmt.Errorf("encode products: %w", err)
	}
	prompt := fmt.Sprintf("You are an expert shopping assistant for GenCart.\n"+
		"Based on the user's query: %q, suggest the best 1-2 products from this list: %s.\n"+
		"Explain why they are a good fit. Use a friendly, professional tone.", query, list)

	return a.generate(ctx, prompt, &genai.GenerateContentConfig{Temperature: genai.Ptr(recommendTemperature)})
}

// DeepDive writes a sales pitch for one product.
func (a *Assistant) DeepDive(ctx context.Context, product domain.Product) (string, error) {
	body, err := json.Marshal(product)
	if err != nil {
		return "", fmt.Errorf("encode product: %w", err)
	}
	prompt := fmt.Sprintf("Generate a detailed and persuasive sales pitch for this product: %s.\n"+
		"Highlight its technical specifications, lifestyle benefits, and why it's a better choice than competitors.\n"+
		"Use bullet points for features.", body)

	return a.generate(ctx, prompt, nil)
}

func (a *Assistant) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if a.gen == nil {
		return "", ErrNotConfigured
	}
	reply, err := a.gen.Generate(ctx, prompt, cfg)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
