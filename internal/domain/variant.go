package domain

// Option is one named dimension value of a variant, e.g. ("size", "M")
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a purchasable combination of option values for a product
type Variant struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	SKU       string   `json:"sku"`
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	Image     string   `json:"image,omitempty"`
	Options   []Option `json:"options"`
}
