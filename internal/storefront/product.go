package storefront

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/variant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// descriptionPreview is the number of characters shown before "..."
const descriptionPreview = 300

// ProductDetail is the product as the detail page shows it
type ProductDetail struct {
	domain.Product
	ShortDescription string   `json:"short_description"`
	Gallery          []string `json:"gallery"`
}

// ProductPage is the rendered state of one product view instance
type ProductPage struct {
	ViewID   uuid.UUID       `json:"view_id"`
	State    PageState       `json:"state"`
	Error    *PageError      `json:"error,omitempty"`
	Product  *ProductDetail  `json:"product,omitempty"`
	Variants VariantsState   `json:"variants"`
	Options  variant.Domains `json:"options"`
	View     *variant.State  `json:"view,omitempty"`
}

type productView struct {
	productID string
	machine   *machine
	err       *PageError
	session   *variant.Session
}

func (v *productView) page(id uuid.UUID) *ProductPage {
	page := &ProductPage{
		ViewID:   id,
		State:    v.machine.page,
		Error:    v.err,
		Variants: v.machine.variants,
		Options:  variant.Domains{},
	}
	if v.session == nil {
		return page
	}

	p := v.session.Product()
	page.Product = &ProductDetail{
		Product:          p,
		ShortDescription: truncate(p.Description, descriptionPreview),
		Gallery:          variant.Gallery(p),
	}
	page.Options = v.session.Domains()
	state := v.session.State()
	page.View = &state
	return page
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// OpenProduct starts a new product view for viewer. Any view the viewer
// had open before is superseded; if this view is itself superseded while
// loading, ErrStaleView is returned and nothing is stored.
func (s *storefrontService) OpenProduct(ctx context.Context, viewer, productID string) (*ProductPage, error) {
	loadCtx, id := s.products.Begin(ctx, viewer)

	view := s.loadProduct(loadCtx, productID)
	if loadCtx.Err() != nil {
		s.products.Discard(viewer, id)
		return nil, ErrStaleView
	}

	page := view.page(id)
	if err := s.products.Commit(viewer, id, view); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *storefrontService) findProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := catalog.FindProduct(ctx, s.source, productID)
	if !errors.Is(err, catalog.ErrNotFound) {
		return product, err
	}

	// a product created after the listing was cached is only found on a
	// fresh listing
	r, ok := s.source.(refresher)
	if !ok {
		return nil, err
	}
	if rerr := r.Refresh(ctx); rerr != nil {
		s.logger.Warn("failed to refresh catalog", zap.Error(rerr))
		return nil, err
	}
	return catalog.FindProduct(ctx, s.source, productID)
}

func (s *storefrontService) loadProduct(ctx context.Context, productID string) *productView {
	view := &productView{productID: productID, machine: newMachine()}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		kind := errorKind(err)
		message := messageProductFailed
		if kind == ErrorNotFound {
			message = messageProductNotFound
		} else {
			s.logger.Error("failed to load product",
				zap.String("product_id", productID),
				zap.Error(err),
			)
		}
		view.err = &PageError{Kind: kind, Message: message, Retry: "/products/" + productID}
		_ = view.machine.to(PageFailed)
		return view
	}
	_ = view.machine.to(PageReady)

	var variants []domain.Variant
	if product.HasVariants() {
		_ = view.machine.variantsTo(VariantsLoading)
		variants, err = s.source.ListVariants(ctx, product.VariantGroup)
		if err != nil {
			s.logger.Warn("variants unavailable",
				zap.String("product_id", productID),
				zap.String("variant_group", product.VariantGroup),
				zap.Error(err),
			)
			variants = nil
			_ = view.machine.variantsTo(VariantsUnavailable)
		} else {
			_ = view.machine.variantsTo(VariantsReady)
		}
	}

	view.session = variant.NewSession(*product, variants)
	return view
}

func (s *storefrontService) updateProduct(viewer string, id uuid.UUID, fn func(*variant.Session) error) (*ProductPage, error) {
	var page *ProductPage
	err := s.products.Update(viewer, id, func(v *productView) error {
		if v.session == nil {
			return ErrPageNotReady
		}
		if err := fn(v.session); err != nil {
			return err
		}
		page = v.page(id)
		return nil
	})
	return page, err
}

// ProductView returns the current state of a product view
func (s *storefrontService) ProductView(viewer string, viewID uuid.UUID) (*ProductPage, error) {
	var page *ProductPage
	err := s.products.Update(viewer, viewID, func(v *productView) error {
		page = v.page(viewID)
		return nil
	})
	return page, err
}

func (s *storefrontService) SelectOption(viewer string, viewID uuid.UUID, name, value string) (*ProductPage, error) {
	return s.updateProduct(viewer, viewID, func(session *variant.Session) error {
		return session.SelectOption(name, value)
	})
}

func (s *storefrontService) ClickThumbnail(viewer string, viewID uuid.UUID, image string) (*ProductPage, error) {
	return s.updateProduct(viewer, viewID, func(session *variant.Session) error {
		session.ClickThumbnail(image)
		return nil
	})
}

func (s *storefrontService) SetQuantity(viewer string, viewID uuid.UUID, quantity int) (*ProductPage, error) {
	return s.updateProduct(viewer, viewID, func(session *variant.Session) error {
		return session.SetQuantity(quantity)
	})
}

func (s *storefrontService) IncreaseQuantity(viewer string, viewID uuid.UUID) (*ProductPage, error) {
	return s.updateProduct(viewer, viewID, func(session *variant.Session) error {
		session.IncreaseQuantity()
		return nil
	})
}

func (s *storefrontService) DecreaseQuantity(viewer string, viewID uuid.UUID) (*ProductPage, error) {
	return s.updateProduct(viewer, viewID, func(session *variant.Session) error {
		session.DecreaseQuantity()
		return nil
	})
}

// AddToCart turns the current selection into a cart line. Products with
// variants need a resolved variant; nothing out of stock can be added.
func (s *storefrontService) AddToCart(viewer string, viewID uuid.UUID) (*domain.CartItem, error) {
	var item *domain.CartItem
	err := s.products.Update(viewer, viewID, func(v *productView) error {
		if v.session == nil {
			return ErrPageNotReady
		}
		session := v.session
		state := session.State()

		resolved := session.Resolved()
		if session.HasVariants() && resolved == nil {
			return ErrVariantUnavailable
		}
		if state.Stock <= 0 {
			return ErrOutOfStock
		}

		p := session.Product()
		line := &domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Name:      p.Name,
			Price:     state.Price,
			Quantity:  state.Quantity,
			Image:     state.Image,
		}
		if resolved != nil {
			line.VariantID = resolved.ID
			line.SKU = resolved.SKU
			line.Size, _ = state.Selection.Get("size")
			line.Color, _ = state.Selection.Get("color")
		}
		item = line
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}
