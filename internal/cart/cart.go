package cart

import (
	"errors"
	"math"

	"storefront/internal/domain"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// FreeShipping is the only shipping option the storefront offers
const FreeShipping = "Free"

// Summary is the order summary shown next to the cart lines
type Summary struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
	Shipping  string            `json:"shipping"`
	Total     float64           `json:"total"`
	Empty     bool              `json:"empty"`
}

// Cart is an in-memory cart seeded from a snapshot. The total is always
// derived from the current lines, never carried over from the snapshot.
//
// A Cart is not safe for concurrent use.
type Cart struct {
	items []domain.CartItem
}

// New seeds a cart from a snapshot
func New(snapshot domain.CartSnapshot) *Cart {
	items := make([]domain.CartItem, len(snapshot.Items))
	copy(items, snapshot.Items)
	return &Cart{items: items}
}

func (c *Cart) find(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// SetQuantity changes one line's quantity; values below 1 are rejected
// and leave the cart unchanged.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.find(id)
	if i < 0 {
		return ErrItemNotFound
	}
	c.items[i].Quantity = quantity
	return nil
}

// Remove drops one line
func (c *Cart) Remove(id string) error {
	i := c.find(id)
	if i < 0 {
		return ErrItemNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Clear drops every line
func (c *Cart) Clear() {
	c.items = c.items[:0]
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total is the sum of price times quantity over the current lines,
// rounded to cents.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return math.Round(total*100) / 100
}

// Summary returns the lines with their derived totals
func (c *Cart) Summary() Summary {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}

	total := c.Total()
	return Summary{
		Items:     c.Items(),
		ItemCount: count,
		Subtotal:  total,
		Shipping:  FreeShipping,
		Total:     total,
		Empty:     len(c.items) == 0,
	}
}
