package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/storefront"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OpenCart starts a cart view seeded from the abandoned cart
func (h *StorefrontHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerID(w, r)
	if !ok {
		return
	}

	page, err := h.service.OpenCart(r.Context(), viewer)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	middleware.RespondWithJSON(w, pageStatus(page.State, page.Error), page)
}

func (h *StorefrontHandler) cartAction(w http.ResponseWriter, r *http.Request, action func(viewer string, id uuid.UUID) (*storefront.CartPage, error)) {
	viewer, ok := viewerID(w, r)
	if !ok {
		return
	}
	id, ok := viewID(w, r)
	if !ok {
		return
	}

	page, err := action(viewer, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// UpdateCartItem changes one line's quantity
func (h *StorefrontHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.cartAction(w, r, func(viewer string, id uuid.UUID) (*storefront.CartPage, error) {
		return h.service.UpdateCartItem(viewer, id, chi.URLParam(r, "itemID"), req.Quantity)
	})
}

// RemoveCartItem drops one line
func (h *StorefrontHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(viewer string, id uuid.UUID) (*storefront.CartPage, error) {
		return h.service.RemoveCartItem(viewer, id, chi.URLParam(r, "itemID"))
	})
}

// ClearCart drops every line
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, h.service.ClearCart)
}
