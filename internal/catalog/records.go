package catalog

import (
	"bytes"
	"encoding/json"
	"time"

	"storefront/internal/domain"
)

// Defaults substituted for missing or malformed upstream fields
const (
	DefaultProductName  = "Unnamed Product"
	DefaultCategoryName = "Uncategorized"
	DefaultBrand        = "Unknown"
)

// number accepts any JSON number and treats every other token as absent
type number struct {
	value float64
	ok    bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	var f float64
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = number{}
		return nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		*n = number{}
		return nil
	}
	*n = number{value: f, ok: true}
	return nil
}

func (n number) float() float64 {
	if !n.ok {
		return 0
	}
	return n.value
}

func (n number) int() int {
	return int(n.float())
}

func (n number) floatPtr() *float64 {
	if !n.ok {
		return nil
	}
	v := n.value
	return &v
}

func (n number) intPtr() *int {
	if !n.ok {
		return nil
	}
	v := int(n.value)
	return &v
}

// text accepts a JSON string and treats every other token as empty
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = text(s)
	return nil
}

// timestamp accepts RFC 3339 strings and treats everything else as zero
type timestamp time.Time

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		*ts = timestamp{}
		return nil
	}
	*ts = timestamp(parsed)
	return nil
}

// ref is either a bare id string or an embedded {_id, name} object
type ref struct {
	ID   string
	Name string
}

func (r *ref) UnmarshalJSON(data []byte) error {
	*r = ref{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err == nil {
			r.ID = id
		}
	case '{':
		var obj struct {
			ID   text `json:"_id"`
			Name text `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			r.ID, r.Name = string(obj.ID), string(obj.Name)
		}
	}
	return nil
}

// list decodes a JSON array of T, treating anything else as empty.
// Elements that fail to decode are skipped.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for _, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		*l = append(*l, v)
	}
	return nil
}

type ratingRecord struct {
	Average      number `json:"average"`
	TotalReviews number `json:"totalReviews"`
}

type productRecord struct {
	ID           text          `json:"_id"`
	Name         text          `json:"name"`
	Slug         text          `json:"slug"`
	Description  text          `json:"description"`
	Price        number        `json:"price"`
	FinalPrice   number        `json:"finalPrice"`
	Discount     number        `json:"discount"`
	Stock        number        `json:"stock"`
	Category     *ref          `json:"category"`
	Subcategory  *ref          `json:"subcategory"`
	Brand        text          `json:"brand"`
	Image        text          `json:"image"`
	Images       list[text]    `json:"images"`
	VariantGroup *ref          `json:"variantGroup"`
	Rating       *ratingRecord `json:"rating"`
	CreatedAt    timestamp     `json:"createdAt"`
	UpdatedAt    timestamp     `json:"updatedAt"`
}

// toDomain normalises a record, substituting defaults for missing fields.
// ok is false when the record has no id and so cannot be addressed.
func (r productRecord) toDomain() (domain.Product, bool) {
	if r.ID == "" {
		return domain.Product{}, false
	}

	p := domain.Product{
		ID:          string(r.ID),
		Name:        string(r.Name),
		Slug:        string(r.Slug),
		Description: string(r.Description),
		Price:       r.Price.float(),
		FinalPrice:  r.FinalPrice.floatPtr(),
		Discount:    r.Discount.floatPtr(),
		Stock:       r.Stock.intPtr(),
		Category:    domain.CategoryRef{Name: DefaultCategoryName},
		Brand:       string(r.Brand),
		Image:       string(r.Image),
		CreatedAt:   time.Time(r.CreatedAt),
		UpdatedAt:   time.Time(r.UpdatedAt),
	}

	if p.Name == "" {
		p.Name = DefaultProductName
	}
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if r.Category != nil {
		p.Category.ID = r.Category.ID
		if r.Category.Name != "" {
			p.Category.Name = r.Category.Name
		}
	}
	if r.Subcategory != nil && r.Subcategory.ID != "" {
		p.Subcategory = &domain.CategoryRef{ID: r.Subcategory.ID, Name: r.Subcategory.Name}
	}
	if r.VariantGroup != nil {
		p.VariantGroup = r.VariantGroup.ID
	}
	if r.Rating != nil {
		p.Rating = &domain.Rating{
			Average:      r.Rating.Average.float(),
			TotalReviews: r.Rating.TotalReviews.int(),
		}
	}
	for _, img := range r.Images {
		if img != "" {
			p.Images = append(p.Images, string(img))
		}
	}

	return p, true
}

type productListResponse struct {
	Products    *list[productRecord] `json:"products"`
	TotalPages  number               `json:"totalPages"`
	CurrentPage number               `json:"currentPage"`
	Count       number               `json:"count"`
}

type categoryRecord struct {
	ID   text `json:"_id"`
	Name text `json:"name"`
	Slug text `json:"slug"`
}

type subCategoryRecord struct {
	ID       text `json:"_id"`
	Name     text `json:"name"`
	Slug     text `json:"slug"`
	Category ref  `json:"category"`
}

type optionRecord struct {
	Name  text `json:"name"`
	Value text `json:"value"`
}

type variantRecord struct {
	ID      text               `json:"_id"`
	Product ref                `json:"product"`
	SKU     text               `json:"sku"`
	Price   number             `json:"price"`
	Stock   number             `json:"stock"`
	Image   text               `json:"image"`
	Options list[optionRecord] `json:"options"`
}

func (r variantRecord) toDomain() domain.Variant {
	v := domain.Variant{
		ID:        string(r.ID),
		ProductID: r.Product.ID,
		SKU:       string(r.SKU),
		Price:     r.Price.float(),
		Stock:     r.Stock.int(),
		Image:     string(r.Image),
		Options:   make([]domain.Option, 0, len(r.Options)),
	}
	for _, opt := range r.Options {
		if opt.Name == "" {
			continue
		}
		v.Options = append(v.Options, domain.Option{Name: string(opt.Name), Value: string(opt.Value)})
	}
	return v
}

type cartItemRecord struct {
	ID        text   `json:"_id"`
	ProductID ref    `json:"productId"`
	Name      text   `json:"name"`
	Price     number `json:"price"`
	Quantity  number `json:"quantity"`
	Image     text   `json:"image"`
	Size      text   `json:"size"`
	Color     text   `json:"color"`
}

type cartResponse struct {
	Cart *struct {
		Items       list[cartItemRecord] `json:"items"`
		TotalAmount number               `json:"totalAmount"`
	} `json:"cart"`
}
