package storefront

import (
	"context"
	"errors"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultViewTTL is how long an untouched view instance is kept
	DefaultViewTTL = 30 * time.Minute

	messageProductNotFound = "Product not found"
	messageProductFailed   = "Error loading product. Please try again later."
	messageProductsFailed  = "Error loading products. Please try again later."
	messageCartFailed      = "Error loading cart. Please try again later."
)

var (
	ErrPageNotReady       = errors.New("page is not ready")
	ErrVariantUnavailable = errors.New("selected options do not match any variant")
	ErrOutOfStock         = errors.New("selected item is out of stock")
)

// Service is the storefront's page logic
type Service interface {
	Home(ctx context.Context, categoryID string) (*HomePage, error)
	Products(ctx context.Context, query ListingQuery) (*ListingPage, error)

	OpenProduct(ctx context.Context, viewer, productID string) (*ProductPage, error)
	ProductView(viewer string, viewID uuid.UUID) (*ProductPage, error)
	SelectOption(viewer string, viewID uuid.UUID, name, value string) (*ProductPage, error)
	ClickThumbnail(viewer string, viewID uuid.UUID, image string) (*ProductPage, error)
	SetQuantity(viewer string, viewID uuid.UUID, quantity int) (*ProductPage, error)
	IncreaseQuantity(viewer string, viewID uuid.UUID) (*ProductPage, error)
	DecreaseQuantity(viewer string, viewID uuid.UUID) (*ProductPage, error)
	AddToCart(viewer string, viewID uuid.UUID) (*domain.CartItem, error)

	OpenCart(ctx context.Context, viewer string) (*CartPage, error)
	UpdateCartItem(viewer string, viewID uuid.UUID, itemID string, quantity int) (*CartPage, error)
	RemoveCartItem(viewer string, viewID uuid.UUID, itemID string) (*CartPage, error)
	ClearCart(viewer string, viewID uuid.UUID) (*CartPage, error)
}

// refresher is implemented by sources that can drop cached listings
type refresher interface {
	Refresh(ctx context.Context) error
}

type storefrontService struct {
	source   catalog.Source
	products *Registry[*productView]
	carts    *Registry[*cartView]
	logger   *zap.Logger
}

// NewService creates a Service reading from source. Product and cart views
// idle for longer than viewTTL are forgotten.
func NewService(source catalog.Source, viewTTL time.Duration, logger *zap.Logger) Service {
	return &storefrontService{
		source:   source,
		products: NewRegistry[*productView](viewTTL),
		carts:    NewRegistry[*cartView](viewTTL),
		logger:   logger,
	}
}

func errorKind(err error) ErrorKind {
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrorNotFound
	}
	return ErrorFetchFailed
}
