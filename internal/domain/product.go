package domain

import (
	"time"
)

// Product represents a catalog product as served by the storefront
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	FinalPrice   *float64     `json:"final_price,omitempty"`
	Discount     *float64     `json:"discount,omitempty"`
	Stock        *int         `json:"stock,omitempty"`
	Category     CategoryRef  `json:"category"`
	Subcategory  *CategoryRef `json:"subcategory,omitempty"`
	Brand        string       `json:"brand"`
	Image        string       `json:"image"`
	Images       []string     `json:"images,omitempty"`
	VariantGroup string       `json:"variant_group,omitempty"`
	Rating       *Rating      `json:"rating,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasVariants reports whether the product references a variant group
func (p Product) HasVariants() bool {
	return p.VariantGroup != ""
}

// CategoryRef is the embedded id+name reference a product carries
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Rating is the aggregated review score of a product
type Rating struct {
	Average      float64 `json:"average"`
	TotalReviews int     `json:"total_reviews"`
}

// Category represents a product category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SubCategory belongs to exactly one Category
type SubCategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	CategoryID string `json:"category_id"`
}

// ProductList is one page of the remote catalog
type ProductList struct {
	Products    []Product `json:"products"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	Count       int       `json:"count"`
}
