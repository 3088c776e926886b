package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Nivash8098/E-Commerece-Website/internal/catalog"
	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.uber.org/zap"
)

// ListProducts fetches GET /products/ and normalizes whichever response shape
// the backend used. Items that cannot be normalized are logged and skipped.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products/", nil)
	if err != nil {
		return nil, err
	}

	res, err := catalog.Normalize(resp.Body())
	if err != nil {
		c.logger.Error("unrecognized catalog response", zap.Int("bytes", len(resp.Body())), zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}
	for _, r := range res.Rejected {
		c.logger.Warn("skipping catalog item", zap.Int("index", r.Index), zap.String("reason", r.Reason))
	}
	return res.Products, nil
}
