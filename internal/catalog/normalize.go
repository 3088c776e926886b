package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/spf13/cast"
)

// Defaults for fields the backend may omit.
const (
	DefaultRating   = 4.5
	DefaultReviews  = 150
	DefaultStock    = 50
	DefaultCategory = "General"
)

// Shape identifies which known upstream layout a catalog response used.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeEnvelope is {"products": [...]}.
	ShapeEnvelope
	// ShapeBareList is [...].
	ShapeBareList
)

func (s Shape) String() string {
	switch s {
	case ShapeEnvelope:
		return "envelope"
	case ShapeBareList:
		return "bare-list"
	default:
		return "unknown"
	}
}

// RawProduct covers every field spelling the backends are known to send.
type RawProduct struct {
	MongoID     any             `json:"_id"`
	ID          any             `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       any             `json:"price"`
	OldPrice    any             `json:"oldPrice"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Stock       any             `json:"stock"`
	Images      json.RawMessage `json:"images"`
	Image       string          `json:"image"`
	Rating      any             `json:"rating"`
	Reviews     any             `json:"reviews"`
}

// Rejection records an item that could not be turned into a Product.
type Rejection struct {
	Index  int
	Reason string
}

// Result is the outcome of normalizing one catalog response.
type Result struct {
	Shape    Shape
	Products []domain.Product
	Rejected []Rejection
}

// Normalize decodes a catalog response body of any known shape into canonical
// products. Items that cannot be normalized are skipped and reported in
// Result.Rejected; a body matching no shape returns ErrUnknownShape.
func Normalize(body []byte) (Result, error) {
	items, shape, err := decodeItems(body)
	if err != nil {
		return Result{Shape: shape}, err
	}

	res := Result{Shape: shape, Products: make([]domain.Product, 0, len(items))}
	for i, item := range items {
		var raw RawProduct
		if err := json.Unmarshal(item, &raw); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Reason: "not an object"})
			continue
		}
		p, err := NormalizeProduct(raw)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Reason: err.Error()})
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

func decodeItems(body []byte) ([]json.RawMessage, Shape, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ShapeUnknown, ErrUnknownShape
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, ShapeUnknown, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		return items, ShapeBareList, nil
	case '{':
		var envelope struct {
			Products *[]json.RawMessage `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil || envelope.Products == nil {
			return nil, ShapeUnknown, ErrUnknownShape
		}
		return *envelope.Products, ShapeEnvelope, nil
	}
	return nil, ShapeUnknown, ErrUnknownShape
}

// NormalizeProduct maps one raw item to a Product, filling defaults for
// rating, reviews, stock and category.
func NormalizeProduct(raw RawProduct) (domain.Product, error) {
	id := firstID(raw.MongoID, raw.ID)
	if id == "" {
		return domain.Product{}, fmt.Errorf("missing id")
	}

	name := raw.Name
	if name == "" {
		name = raw.Title
	}
	if name == "" {
		return domain.Product{}, fmt.Errorf("product %s: missing name", id)
	}

	price, err := cast.ToInt64E(orZero(raw.Price))
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: invalid price: %w", id, err)
	}

	p := domain.Product{
		ID:          id,
		Name:        name,
		Description: raw.Description,
		Price:       price,
		Category:    raw.Category,
		Brand:       raw.Brand,
		Images:      images(raw),
		Stock:       DefaultStock,
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	if raw.OldPrice != nil {
		if old, err := cast.ToInt64E(raw.OldPrice); err == nil && old > 0 {
			p.OldPrice = &old
		}
	}
	if raw.Stock != nil {
		if stock, err := cast.ToIntE(raw.Stock); err == nil && stock >= 0 {
			p.Stock = stock
		}
	}

	rating := DefaultRating
	if r, err := cast.ToFloat64E(raw.Rating); err == nil && r > 0 {
		rating = r
	}
	p.Rating = &rating

	reviews := DefaultReviews
	if n, err := cast.ToIntE(raw.Reviews); err == nil && n > 0 {
		reviews = n
	}
	p.Reviews = &reviews

	return p, nil
}

// firstID returns the first usable identifier. Mongo exports may wrap the id
// as {"$oid": "..."}.
func firstID(candidates ...any) string {
	for _, c := range candidates {
		if m, ok := c.(map[string]any); ok {
			c = m["$oid"]
		}
		if c == nil {
			continue
		}
		if s, err := cast.ToStringE(c); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func images(raw RawProduct) []string {
	var list []string
	if len(raw.Images) > 0 && json.Unmarshal(raw.Images, &list) == nil && list != nil {
		return list
	}
	if raw.Image != "" {
		return []string{raw.Image}
	}
	return []string{}
}

func orZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}
