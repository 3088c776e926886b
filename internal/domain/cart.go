package domain

import "time"

// CartLine is a product with its selected quantity.
type CartLine struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CartState is an ordered set of lines with the total derived at snapshot time.
type CartState struct {
	Lines []CartLine `json:"lines"`
	Total int64      `json:"total"`
}

// SumLines computes Σ price×quantity.
func SumLines(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// SavedCart is the persisted cart of one storefront session.
type SavedCart struct {
	SessionID string     `json:"sessionId" bson:"session_id"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// CartSummary is the price breakdown shown next to the cart.
type CartSummary struct {
	Lines       []CartLine `json:"lines"`
	Subtotal    int64      `json:"subtotal"`
	HandlingFee int64      `json:"handlingFee"`
	Total       int64      `json:"total"`
	Count       int        `json:"count"`
}

// Summarize adds the handling fee to a non-empty cart.
func Summarize(state CartState) CartSummary {
	s := CartSummary{Lines: state.Lines, Subtotal: state.Total}
	if s.Lines == nil {
		s.Lines = []CartLine{}
	}
	for _, l := range state.Lines {
		s.Count += l.Quantity
	}
	if len(state.Lines) > 0 {
		s.HandlingFee = HandlingFee
	}
	s.Total = s.Subtotal + s.HandlingFee
	return s
}
