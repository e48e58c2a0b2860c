package storefront

import (
	"context"
	"sort"

	"storefront/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	newArrivalsLimit = 6
	dealsLimit       = 4
)

// HomePage is the landing page: category tabs, new arrivals and deals
type HomePage struct {
	State            PageState         `json:"state"`
	Error            *PageError        `json:"error,omitempty"`
	Categories       []domain.Category `json:"categories"`
	SelectedCategory string            `json:"selected_category,omitempty"`
	NewArrivals      []ProductCard     `json:"new_arrivals"`
	Deals            []ProductCard     `json:"deals"`
}

// Home builds the landing page from the first catalog page. categoryID
// narrows new arrivals to one category.
func (s *storefrontService) Home(ctx context.Context, categoryID string) (*HomePage, error) {
	var (
		list       *domain.ProductList
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.source.ListProducts(gctx, 1)
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

	page := &HomePage{
		State:            PageReady,
		Categories:       []domain.Category{},
		SelectedCategory: categoryID,
		NewArrivals:      []ProductCard{},
		Deals:            []ProductCard{},
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load home page", zap.Error(err))
		page.State = PageFailed
		page.Error = &PageError{Kind: errorKind(err), Message: messageProductsFailed, Retry: "/"}
		return page, nil
	}
	if categories != nil {
		page.Categories = categories
	}

	page.NewArrivals = newArrivals(list.Products, categoryID)
	page.Deals = deals(list.Products)
	return page, nil
}

func newArrivals(products []domain.Product, categoryID string) []ProductCard {
	matching := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if categoryID == "" || p.Category.ID == categoryID {
			matching = append(matching, p)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	cards := make([]ProductCard, 0, newArrivalsLimit)
	for _, p := range matching {
		if len(cards) == newArrivalsLimit {
			break
		}
		cards = append(cards, newProductCard(p))
	}
	return cards
}

func deals(products []domain.Product) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		if card := newProductCard(p); card.Discount > 0 {
			cards = append(cards, card)
		}
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Discount > cards[j].Discount
	})
	if len(cards) > dealsLimit {
		cards = cards[:dealsLimit]
	}
	return cards
}
