package domain

import "time"

type OrderStatus string

const (
	OrderStatusOrdered        OrderStatus = "ordered"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses lists the tracking stages in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusOrdered,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// Stage returns the tracking index of the status, or -1 if unknown.
func (s OrderStatus) Stage() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// HandlingFee is added to every order total.
const HandlingFee int64 = 99

type Order struct {
	ID            string          `json:"id"`
	Items         []CartLine      `json:"items"`
	Address       ShippingAddress `json:"address"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Total         int64           `json:"total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Synced        bool            `json:"synced"`
	SyncError     string          `json:"syncError,omitempty"`
}
