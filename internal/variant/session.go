package variant

import (
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// State is a read-only snapshot of a Session with every derived value
type State struct {
	Selection    Selection       `json:"selection"`
	Resolved     *domain.Variant `json:"resolved_variant"`
	Quantity     int             `json:"quantity"`
	Price        float64         `json:"price"`
	ListPrice    float64         `json:"list_price"`
	Discount     int             `json:"discount"`
	Stock        int             `json:"stock"`
	Availability string          `json:"availability"`
	Image        string          `json:"image"`
	Thumbnail    string          `json:"thumbnail,omitempty"`
}

// Session is the selection state of one product view. It is created with
// defaults and mutated only by explicit user actions; the resolved variant
// is recomputed inside every mutation so it never lags the selection.
//
// A Session is not safe for concurrent use.
type Session struct {
	product   domain.Product
	variants  []domain.Variant
	domains   Domains
	index     *Index
	selection Selection
	resolved  *domain.Variant
	quantity  int
	thumbnail string
}

// NewSession starts a session for the product with the first available
// value selected for every option and a quantity of 1.
func NewSession(product domain.Product, variants []domain.Variant) *Session {
	domains := DeriveOptionDomains(variants)
	s := &Session{
		product:   product,
		variants:  variants,
		domains:   domains,
		index:     NewIndex(variants),
		selection: domains.Defaults(),
		quantity:  1,
	}
	s.resolve()
	return s
}

// resolve leaves products without variant dimensions on their base fields,
// even when option-less variant records exist
func (s *Session) resolve() {
	if s.domains.Empty() {
		s.resolved = nil
		return
	}
	s.resolved, _ = s.index.Resolve(s.selection)
}

// Product returns the base product
func (s *Session) Product() domain.Product {
	return s.product
}

// Domains returns the option domains the session selects from
func (s *Session) Domains() Domains {
	return s.domains
}

// HasVariants reports whether the product has any variant dimensions
func (s *Session) HasVariants() bool {
	return !s.domains.Empty()
}

// Resolved returns the variant matching the current selection, if any
func (s *Session) Resolved() *domain.Variant {
	return s.resolved
}

// Quantity returns the chosen quantity
func (s *Session) Quantity() int {
	return s.quantity
}

// SelectOption overwrites one option value and re-resolves. A selection
// is a newer user action than any earlier thumbnail click, so the click
// stops taking precedence.
func (s *Session) SelectOption(name, value string) error {
	d, ok := s.domains.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}

	s.selection = s.selection.With(d.Name, value)
	s.thumbnail = ""
	s.resolve()
	return nil
}

// ClickThumbnail makes image the displayed image until the next selection
func (s *Session) ClickThumbnail(image string) {
	s.thumbnail = image
}

// SetQuantity sets a positive quantity
func (s *Session) SetQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	s.quantity = quantity
	return nil
}

// IncreaseQuantity adds one
func (s *Session) IncreaseQuantity() {
	s.quantity++
}

// DecreaseQuantity removes one, never going below 1
func (s *Session) DecreaseQuantity() {
	if s.quantity > 1 {
		s.quantity--
	}
}

// State returns the current snapshot
func (s *Session) State() State {
	stock := EffectiveStock(s.product, s.resolved)

	var resolved *domain.Variant
	if s.resolved != nil {
		v := *s.resolved
		resolved = &v
	}

	return State{
		Selection:    s.selection.Clone(),
		Resolved:     resolved,
		Quantity:     s.quantity,
		Price:        EffectivePrice(s.product, s.resolved),
		ListPrice:    s.product.Price,
		Discount:     DiscountPercentage(s.product, s.resolved),
		Stock:        stock,
		Availability: Availability(stock),
		Image:        EffectiveImage(s.product, s.resolved, s.thumbnail),
		Thumbnail:    s.thumbnail,
	}
}

// Gallery lists the product's primary image followed by its additional
// images, without duplicates or empty entries.
func Gallery(p domain.Product) []string {
	seen := make(map[string]bool, len(p.Images)+1)
	gallery := make([]string, 0, len(p.Images)+1)
	for _, img := range append([]string{p.Image}, p.Images...) {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		gallery = append(gallery, img)
	}
	return gallery
}
