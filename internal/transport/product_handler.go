package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/storefront"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SelectOptionRequest picks one option value
type SelectOptionRequest struct {
	Name  string `json:"name" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=128"`
}

// ThumbnailRequest shows one gallery image
type ThumbnailRequest struct {
	Image string `json:"image" validate:"required,max=2048"`
}

// QuantityRequest sets the quantity of a product view or cart line
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
}

// OpenProduct starts a new view of a product
func (h *StorefrontHandler) OpenProduct(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	page, err := h.service.OpenProduct(r.Context(), viewer, productID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Debug("Product view opened",
		zap.String("product_id", productID),
		zap.String("view_id", page.ViewID.String()),
		zap.String("state", string(page.State)),
	)
	middleware.RespondWithJSON(w, pageStatus(page.State, page.Error), page)
}

// productAction resolves the viewer and view of a request and answers
// with the page the action produced
func (h *StorefrontHandler) productAction(w http.ResponseWriter, r *http.Request, action func(viewer string, id uuid.UUID) (*storefront.ProductPage, error)) {
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
	if page.Product != nil && page.Product.ID != chi.URLParam(r, "productID") {
		middleware.RespondWithError(w, http.StatusNotFound, "view not found")
		return
	}
	middleware.RespondWithJSON(w, pageStatus(page.State, page.Error), page)
}

// ProductView returns the current state of a product view
func (h *StorefrontHandler) ProductView(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.service.ProductView)
}

// SelectOption handles an option change
func (h *StorefrontHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req SelectOptionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.productAction(w, r, func(viewer string, id uuid.UUID) (*storefront.ProductPage, error) {
		return h.service.SelectOption(viewer, id, req.Name, req.Value)
	})
}

// ClickThumbnail handles a gallery click
func (h *StorefrontHandler) ClickThumbnail(w http.ResponseWriter, r *http.Request) {
	var req ThumbnailRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.productAction(w, r, func(viewer string, id uuid.UUID) (*storefront.ProductPage, error) {
		return h.service.ClickThumbnail(viewer, id, req.Image)
	})
}

// SetQuantity handles a typed quantity
func (h *StorefrontHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.productAction(w, r, func(viewer string, id uuid.UUID) (*storefront.ProductPage, error) {
		return h.service.SetQuantity(viewer, id, req.Quantity)
	})
}

// IncreaseQuantity handles the "+" button
func (h *StorefrontHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.service.IncreaseQuantity)
}

// DecreaseQuantity handles the "-" button
func (h *StorefrontHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.service.DecreaseQuantity)
}

// AddToCart returns the cart line for the current selection
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerID(w, r)
	if !ok {
		return
	}
	id, ok := viewID(w, r)
	if !ok {
		return
	}

	item, err := h.service.AddToCart(viewer, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if item.ProductID != chi.URLParam(r, "productID") {
		middleware.RespondWithError(w, http.StatusNotFound, "view not found")
		return
	}

	h.logger.Info("Item added to cart",
		zap.String("product_id", item.ProductID),
		zap.String("sku", item.SKU),
		zap.Int("quantity", item.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}
