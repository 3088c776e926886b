package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

type addProductsRequest struct {
	Products []domain.ProductInput `json:"products"`
}

type addProductsResponse struct {
	Count int `json:"count"`
}

// AddProducts uploads products in bulk and returns how many the backend stored.
func (c *Client) AddProducts(ctx context.Context, products []domain.ProductInput) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, "/products/add-multiple", addProductsRequest{Products: products})
	if err != nil {
		return 0, err
	}
	var out addProductsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decode add-multiple response: %w", err)
	}
	return out.Count, nil
}
