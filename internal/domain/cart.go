package domain

// CartItem is one line of a shopping cart
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Subtotal returns price times quantity for the line
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartSnapshot is the cart as returned by the remote abandoned-cart endpoint
type CartSnapshot struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
}
