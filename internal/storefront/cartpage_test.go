package storefront

import (
	"context"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCart_RecomputesTotal(t *testing.T) {
	svc := newTestService(newFakeSource())

	page, err := svc.OpenCart(context.Background(), "viewer")
	require.NoError(t, err)
	assert.Equal(t, PageReady, page.State)
	require.NotNil(t, page.Summary)
	assert.Equal(t, 202.0, page.Summary.Total)
	assert.Equal(t, 3, page.Summary.ItemCount)
	assert.Equal(t, cart.FreeShipping, page.Summary.Shipping)
	assert.Equal(t, "/products", page.ContinueShopping)
}

func TestCartActions(t *testing.T) {
	svc := newTestService(newFakeSource())
	page, err := svc.OpenCart(context.Background(), "viewer")
	require.NoError(t, err)
	id := page.ViewID

	page, err = svc.UpdateCartItem("viewer", id, "i2", 3)
	require.NoError(t, err)
	assert.Equal(t, 226.0, page.Summary.Total)

	_, err = svc.UpdateCartItem("viewer", id, "i2", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	page, err = svc.RemoveCartItem("viewer", id, "i1")
	require.NoError(t, err)
	assert.Equal(t, 36.0, page.Summary.Total)

	_, err = svc.RemoveCartItem("viewer", id, "i1")
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	page, err = svc.ClearCart("viewer", id)
	require.NoError(t, err)
	assert.True(t, page.Summary.Empty)
	assert.Zero(t, page.Summary.Total)

	_, err = svc.ClearCart("viewer", uuid.New())
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestOpenCart_Failure(t *testing.T) {
	src := newFakeSource()
	src.cartErr = catalog.ErrUpstream
	svc := newTestService(src)

	page, err := svc.OpenCart(context.Background(), "viewer")
	require.NoError(t, err)
	assert.Equal(t, PageFailed, page.State)
	assert.Nil(t, page.Summary)
	assert.Equal(t, "/cart", page.Error.Retry)

	_, err = svc.ClearCart("viewer", page.ViewID)
	assert.ErrorIs(t, err, ErrPageNotReady)
}

func TestOpenCart_DoesNotTouchProductViews(t *testing.T) {
	svc := newTestService(newFakeSource())

	product, err := svc.OpenProduct(context.Background(), "viewer", "p1")
	require.NoError(t, err)
	_, err = svc.OpenCart(context.Background(), "viewer")
	require.NoError(t, err)

	_, err = svc.ProductView("viewer", product.ViewID)
	assert.NoError(t, err)
}
