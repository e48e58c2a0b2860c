package storefront

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/variant"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductCard is the compact product shown in grids
type ProductCard struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	Category      string         `json:"category"`
	Image         string         `json:"image"`
	Price         float64        `json:"price"`
	ListPrice     float64        `json:"list_price"`
	Discount      int            `json:"discount"`
	InStock       bool           `json:"in_stock"`
	AlmostSoldOut bool           `json:"almost_sold_out"`
	Rating        *domain.Rating `json:"rating,omitempty"`
}

func newProductCard(p domain.Product) ProductCard {
	stock := variant.EffectiveStock(p, nil)
	return ProductCard{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      p.Category.Name,
		Image:         variant.EffectiveImage(p, nil, ""),
		Price:         variant.EffectivePrice(p, nil),
		ListPrice:     p.Price,
		Discount:      variant.DiscountPercentage(p, nil),
		InStock:       stock > 0,
		AlmostSoldOut: variant.AlmostSoldOut(stock),
		Rating:        p.Rating,
	}
}

// ListingQuery selects a page of the catalog and optional filters
type ListingQuery struct {
	Page          int    `json:"page"`
	CategoryID    string `json:"category,omitempty"`
	SubCategoryID string `json:"subcategory,omitempty"`
}

// Pagination describes where the listing page sits in the catalog
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Count       int   `json:"count"`
	Pages       []int `json:"pages"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
}

// pageWindow is how many page links a listing offers at once
const pageWindow = 10

// newPagination centres a window of at most pageWindow page numbers on
// the current page
func newPagination(current, total, count int) Pagination {
	if total < 1 {
		total = 1
	}
	first := current - pageWindow/2
	if first > total-pageWindow+1 {
		first = total - pageWindow + 1
	}
	if first < 1 {
		first = 1
	}
	last := min(first+pageWindow-1, total)

	pages := make([]int, 0, last-first+1)
	for n := first; n <= last; n++ {
		pages = append(pages, n)
	}
	return Pagination{
		CurrentPage: current,
		TotalPages:  total,
		Count:       count,
		Pages:       pages,
		HasPrev:     current > 1,
		HasNext:     current < total,
	}
}

// ListingPage is the product listing with its filter options
type ListingPage struct {
	State         PageState            `json:"state"`
	Error         *PageError           `json:"error,omitempty"`
	Filters       ListingQuery         `json:"filters"`
	Products      []ProductCard        `json:"products"`
	Categories    []domain.Category    `json:"categories"`
	SubCategories []domain.SubCategory `json:"subcategories"`
	Pagination    Pagination           `json:"pagination"`
}

// Products loads one catalog page together with the category filters.
// Only the product fetch can fail the page; missing taxonomy shows as
// empty filter lists.
func (s *storefrontService) Products(ctx context.Context, query ListingQuery) (*ListingPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}

	var (
		list          *domain.ProductList
		categories    []domain.Category
		subcategories []domain.SubCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.source.ListProducts(gctx, query.Page)
		return err
	})
	g.Go(func() error {
		var err error
		if categories, err = s.source.ListCategories(gctx); err != nil {
			s.logger.Warn("categories unavailable", zap.Error(err))
			categories = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if subcategories, err = s.source.ListSubCategories(gctx); err != nil {
			s.logger.Warn("subcategories unavailable", zap.Error(err))
			subcategories = nil
		}
		return nil
	})

	page := &ListingPage{
		State:         PageReady,
		Filters:       query,
		Products:      []ProductCard{},
		Categories:    []domain.Category{},
		SubCategories: []domain.SubCategory{},
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load products", zap.Int("page", query.Page), zap.Error(err))
		page.State = PageFailed
		page.Error = &PageError{Kind: errorKind(err), Message: messageProductsFailed, Retry: "/products"}
		page.Pagination = newPagination(query.Page, 1, 0)
		return page, nil
	}

	if categories != nil {
		page.Categories = categories
	}
	for _, sc := range subcategories {
		if query.CategoryID == "" || sc.CategoryID == query.CategoryID {
			page.SubCategories = append(page.SubCategories, sc)
		}
	}

	for _, p := range list.Products {
		if !matchesFilters(p, query) {
			continue
		}
		page.Products = append(page.Products, newProductCard(p))
	}
	page.Pagination = newPagination(list.CurrentPage, list.TotalPages, list.Count)
	return page, nil
}

func matchesFilters(p domain.Product, query ListingQuery) bool {
	if query.CategoryID != "" && p.Category.ID != query.CategoryID {
		return false
	}
	if query.SubCategoryID != "" && (p.Subcategory == nil || p.Subcategory.ID != query.SubCategoryID) {
		return false
	}
	return true
}
