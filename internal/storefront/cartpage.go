package storefront

import (
	"context"

	"storefront/internal/cart"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartPage is the rendered state of one cart view instance
type CartPage struct {
	ViewID           uuid.UUID     `json:"view_id"`
	State            PageState     `json:"state"`
	Error            *PageError    `json:"error,omitempty"`
	Summary          *cart.Summary `json:"summary,omitempty"`
	ContinueShopping string        `json:"continue_shopping"`
}

type cartView struct {
	machine *machine
	err     *PageError
	cart    *cart.Cart
}

func (v *cartView) page(id uuid.UUID) *CartPage {
	page := &CartPage{
		ViewID:           id,
		State:            v.machine.page,
		Error:            v.err,
		ContinueShopping: "/products",
	}
	if v.cart != nil {
		summary := v.cart.Summary()
		page.Summary = &summary
	}
	return page
}

// OpenCart starts a cart view seeded from the abandoned cart
func (s *storefrontService) OpenCart(ctx context.Context, viewer string) (*CartPage, error) {
	loadCtx, id := s.carts.Begin(ctx, viewer)

	view := &cartView{machine: newMachine()}
	snapshot, err := s.source.AbandonedCart(loadCtx)
	if loadCtx.Err() != nil {
		s.carts.Discard(viewer, id)
		return nil, ErrStaleView
	}
	if err != nil {
		s.logger.Error("failed to load cart", zap.Error(err))
		view.err = &PageError{Kind: errorKind(err), Message: messageCartFailed, Retry: "/cart"}
		_ = view.machine.to(PageFailed)
	} else {
		view.cart = cart.New(*snapshot)
		_ = view.machine.to(PageReady)
	}

	page := view.page(id)
	if err := s.carts.Commit(viewer, id, view); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *storefrontService) updateCart(viewer string, id uuid.UUID, fn func(*cart.Cart) error) (*CartPage, error) {
	var page *CartPage
	err := s.carts.Update(viewer, id, func(v *cartView) error {
		if v.cart == nil {
			return ErrPageNotReady
		}
		if err := fn(v.cart); err != nil {
			return err
		}
		page = v.page(id)
		return nil
	})
	return page, err
}

func (s *storefrontService) UpdateCartItem(viewer string, viewID uuid.UUID, itemID string, quantity int) (*CartPage, error) {
	return s.updateCart(viewer, viewID, func(c *cart.Cart) error {
		return c.SetQuantity(itemID, quantity)
	})
}

func (s *storefrontService) RemoveCartItem(viewer string, viewID uuid.UUID, itemID string) (*CartPage, error) {
	return s.updateCart(viewer, viewID, func(c *cart.Cart) error {
		return c.Remove(itemID)
	})
}

func (s *storefrontService) ClearCart(viewer string, viewID uuid.UUID) (*CartPage, error) {
	return s.updateCart(viewer, viewID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}
