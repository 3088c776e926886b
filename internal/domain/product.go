package domain

// Product is a catalog entry. Prices are whole currency units.
type Product struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       int64    `json:"price" bson:"price"`
	OldPrice    *int64   `json:"oldPrice,omitempty" bson:"old_price,omitempty"`
	Category    string   `json:"category" bson:"category"`
	Brand       string   `json:"brand" bson:"brand"`
	Stock       int      `json:"stock" bson:"stock"`
	Images      []string `json:"images" bson:"images"`
	Rating      *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Reviews     *int     `json:"reviews,omitempty" bson:"reviews,omitempty"`
}

// PrimaryImage returns the first image or an empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductInput is a seller-submitted product for bulk upload.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}
