package catalog

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain"

	"go.uber.org/zap"
)

const (
	productsKeyPrefix = "catalog:products:"
	categoriesKey     = "catalog:categories"
	subCategoriesKey  = "catalog:subcategories"
	variantsKeyPrefix = "catalog:variants:"
)

// CachedSource is a read-through cache in front of a Source. Cache
// failures are logged and the request falls through to the source.
// The abandoned cart is never cached.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps source with a cache whose entries live for ttl
func NewCachedSource(source Source, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func readThrough[T any](ctx context.Context, s *CachedSource, key string, load func() (T, error)) (T, error) {
	var cached T
	found, err := s.cache.Unmarshal(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Marshal(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// ListProducts returns a cached catalog page
func (s *CachedSource) ListProducts(ctx context.Context, page int) (*domain.ProductList, error) {
	return readThrough(ctx, s, fmt.Sprintf("%s%d", productsKeyPrefix, page), func() (*domain.ProductList, error) {
		return s.source.ListProducts(ctx, page)
	})
}

// ListCategories returns the cached category list
func (s *CachedSource) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return readThrough(ctx, s, categoriesKey, func() ([]domain.Category, error) {
		return s.source.ListCategories(ctx)
	})
}

// ListSubCategories returns the cached subcategory list
func (s *CachedSource) ListSubCategories(ctx context.Context) ([]domain.SubCategory, error) {
	return readThrough(ctx, s, subCategoriesKey, func() ([]domain.SubCategory, error) {
		return s.source.ListSubCategories(ctx)
	})
}

// ListVariants returns the cached variants of a group
func (s *CachedSource) ListVariants(ctx context.Context, groupID string) ([]domain.Variant, error) {
	return readThrough(ctx, s, variantsKeyPrefix+groupID, func() ([]domain.Variant, error) {
		return s.source.ListVariants(ctx, groupID)
	})
}

// AbandonedCart always goes to the source
func (s *CachedSource) AbandonedCart(ctx context.Context) (*domain.CartSnapshot, error) {
	return s.source.AbandonedCart(ctx)
}

// Refresh drops every cached catalog page so the next scan sees the
// upstream listing.
func (s *CachedSource) Refresh(ctx context.Context) error {
	if err := s.cache.DeleteByPrefix(ctx, productsKeyPrefix); err != nil {
		return fmt.Errorf("failed to refresh catalog cache: %w", err)
	}
	return nil
}
