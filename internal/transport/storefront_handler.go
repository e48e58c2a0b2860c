package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/storefront"
	"storefront/internal/variant"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingParams are the query parameters of the product listing
type ListingParams struct {
	Page          int    `validate:"gte=1"`
	CategoryID    string `validate:"max=64"`
	SubCategoryID string `validate:"max=64"`
}

// StorefrontHandler serves the storefront pages and view actions
type StorefrontHandler struct {
	service storefront.Service
	logger  *zap.Logger
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(service storefront.Service, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers every storefront route
func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products)
		r.Get("/{productID}", h.OpenProduct)

		r.Route("/{productID}/views/{viewID}", func(r chi.Router) {
			r.Get("/", h.ProductView)
			r.Post("/options", h.SelectOption)
			r.Post("/thumbnail", h.ClickThumbnail)
			r.Post("/quantity", h.SetQuantity)
			r.Post("/quantity/increase", h.IncreaseQuantity)
			r.Post("/quantity/decrease", h.DecreaseQuantity)
			r.Post("/cart", h.AddToCart)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.OpenCart)
		r.Delete("/views/{viewID}/items", h.ClearCart)
		r.Patch("/views/{viewID}/items/{itemID}", h.UpdateCartItem)
		r.Delete("/views/{viewID}/items/{itemID}", h.RemoveCartItem)
	})
}

// Home handles the landing page
func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Home(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	middleware.RespondWithJSON(w, pageStatus(page.State, page.Error), page)
}

// Products handles the product listing
func (h *StorefrontHandler) Products(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := ListingParams{
		Page:          1,
		CategoryID:    query.Get("category"),
		SubCategoryID: query.Get("subcategory"),
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
				{Field: "page", Message: "Value must be a number"},
			})
			return
		}
		params.Page = page
	}
	if err := middleware.ValidateRequest(params); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	page, err := h.service.Products(r.Context(), storefront.ListingQuery{
		Page:          params.Page,
		CategoryID:    params.CategoryID,
		SubCategoryID: params.SubCategoryID,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	middleware.RespondWithJSON(w, pageStatus(page.State, page.Error), page)
}

// pageStatus maps a page's outcome to the HTTP status it is served with.
// Errored pages still carry their body with the retry link.
func pageStatus(state storefront.PageState, pageErr *storefront.PageError) int {
	if state != storefront.PageFailed || pageErr == nil {
		return http.StatusOK
	}
	if pageErr.Kind == storefront.ErrorNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func viewerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetViewerID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "viewer not identified")
	}
	return id, ok
}

func viewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "viewID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "view not found")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into req and answers 400 when it is invalid
func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		h.logger.Debug("Request validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *StorefrontHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storefront.ErrViewNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "view not found")
	case errors.Is(err, cart.ErrItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
	case errors.Is(err, storefront.ErrStaleView):
		middleware.RespondWithError(w, http.StatusConflict, "view was replaced by a newer one")
	case errors.Is(err, storefront.ErrPageNotReady):
		middleware.RespondWithError(w, http.StatusConflict, "page is not ready")
	case errors.Is(err, variant.ErrUnknownOption):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, variant.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be at least 1")
	case errors.Is(err, storefront.ErrVariantUnavailable):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, "selected options are unavailable")
	case errors.Is(err, storefront.ErrOutOfStock):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, "selected item is out of stock")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
