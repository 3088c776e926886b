package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

type orderPayload struct {
	ID            string                 `json:"id"`
	OrderID       string                 `json:"orderId"`
	Items         []orderItemPayload     `json:"items"`
	Address       domain.ShippingAddress `json:"address"`
	PaymentMethod string                 `json:"paymentMethod"`
	TotalAmount   int64                  `json:"totalAmount"`
	Status        string                 `json:"status"`
	CreatedAt     string                 `json:"createdAt"`
}

func newOrderPayload(o domain.Order) orderPayload {
	items := make([]orderItemPayload, len(o.Items))
	for i, l := range o.Items {
		items[i] = orderItemPayload{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
			Image:     l.Product.PrimaryImage(),
		}
	}
	return orderPayload{
		ID:            o.ID,
		OrderID:       o.ID,
		Items:         items,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod.String(),
		TotalAmount:   o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// CreateOrder persists an order with POST /orders/.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) error {
	_, err := c.do(ctx, http.MethodPost, "/orders/", newOrderPayload(order))
	return err
}
