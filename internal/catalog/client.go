package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUpstream          = errors.New("upstream request failed")
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrUpstream
}

// Source is the read side of the remote e-commerce API
type Source interface {
	ListProducts(ctx context.Context, page int) (*domain.ProductList, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSubCategories(ctx context.Context) ([]domain.SubCategory, error)
	ListVariants(ctx context.Context, groupID string) ([]domain.Variant, error)
	AbandonedCart(ctx context.Context) (*domain.CartSnapshot, error)
}

// Client talks JSON over HTTP to the remote e-commerce API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for baseURL; timeout bounds every request
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w: %s: %w", ErrUpstream, ErrMalformedResponse, path, err)
	}
	return nil
}

// ListProducts fetches one page of the catalog
func (c *Client) ListProducts(ctx context.Context, page int) (*domain.ProductList, error) {
	if page < 1 {
		page = 1
	}

	var resp productListResponse
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.get(ctx, "/api/v1/products", query, &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		return nil, fmt.Errorf("%w: %w: products missing", ErrUpstream, ErrMalformedResponse)
	}

	result := &domain.ProductList{
		Products:    make([]domain.Product, 0, len(*resp.Products)),
		TotalPages:  resp.TotalPages.int(),
		CurrentPage: resp.CurrentPage.int(),
		Count:       resp.Count.int(),
	}
	skipped := 0
	for _, rec := range *resp.Products {
		p, ok := rec.toDomain()
		if !ok {
			skipped++
			continue
		}
		result.Products = append(result.Products, p)
	}
	if skipped > 0 {
		c.logger.Warn("Skipped products without id", zap.Int("count", skipped))
	}

	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	if result.TotalPages > maxCatalogPages {
		c.logger.Warn("Upstream reported implausible page count",
			zap.Int("total_pages", result.TotalPages),
			zap.Int("max", maxCatalogPages),
		)
		result.TotalPages = maxCatalogPages
	}
	if result.CurrentPage < 1 {
		result.CurrentPage = page
	}
	if result.Count == 0 {
		result.Count = len(result.Products)
	}

	return result, nil
}

// ListCategories fetches every category
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var records list[categoryRecord]
	if err := c.get(ctx, "/api/v1/categories", nil, &records); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		categories = append(categories, domain.Category{ID: string(r.ID), Name: string(r.Name), Slug: string(r.Slug)})
	}
	return categories, nil
}

// ListSubCategories fetches every subcategory
func (c *Client) ListSubCategories(ctx context.Context) ([]domain.SubCategory, error) {
	var records list[subCategoryRecord]
	if err := c.get(ctx, "/api/v1/subcategories", nil, &records); err != nil {
		return nil, err
	}

	subs := make([]domain.SubCategory, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		subs = append(subs, domain.SubCategory{
			ID:         string(r.ID),
			Name:       string(r.Name),
			Slug:       string(r.Slug),
			CategoryID: r.Category.ID,
		})
	}
	return subs, nil
}

// ListVariants fetches the variants of one variant group
func (c *Client) ListVariants(ctx context.Context, groupID string) ([]domain.Variant, error) {
	var records list[variantRecord]
	if err := c.get(ctx, "/api/v1/variants/group/"+url.PathEscape(groupID), nil, &records); err != nil {
		return nil, err
	}

	variants := make([]domain.Variant, 0, len(records))
	for _, r := range records {
		variants = append(variants, r.toDomain())
	}
	return variants, nil
}

// AbandonedCart fetches the cart snapshot
func (c *Client) AbandonedCart(ctx context.Context) (*domain.CartSnapshot, error) {
	var resp cartResponse
	if err := c.get(ctx, "/api/cart/abandoned", nil, &resp); err != nil {
		return nil, err
	}

	snapshot := &domain.CartSnapshot{Items: []domain.CartItem{}}
	if resp.Cart == nil {
		return snapshot, nil
	}

	snapshot.TotalAmount = resp.Cart.TotalAmount.float()
	for _, r := range resp.Cart.Items {
		if r.ID == "" {
			continue
		}
		item := domain.CartItem{
			ID:        string(r.ID),
			ProductID: r.ProductID.ID,
			Name:      string(r.Name),
			Price:     r.Price.float(),
			Quantity:  r.Quantity.int(),
			Image:     string(r.Image),
			Size:      string(r.Size),
			Color:     string(r.Color),
		}
		if item.Name == "" {
			item.Name = DefaultProductName
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		snapshot.Items = append(snapshot.Items, item)
	}
	return snapshot, nil
}

// maxCatalogPages bounds FindProduct against an upstream that misreports totalPages
const maxCatalogPages = 500

// FindProduct scans the catalog page by page for the product with id.
// It returns ErrNotFound when the full listing does not contain it.
func FindProduct(ctx context.Context, src Source, id string) (*domain.Product, error) {
	for page := 1; page <= maxCatalogPages; page++ {
		result, err := src.ListProducts(ctx, page)
		if err != nil {
			return nil, err
		}

		for i := range result.Products {
			if result.Products[i].ID == id {
				p := result.Products[i]
				return &p, nil
			}
		}

		if page >= result.TotalPages || len(result.Products) == 0 {
			break
		}
	}
	return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
}
