package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BeginSupersedesPrevious(t *testing.T) {
	r := NewRegistry[string](time.Minute)

	firstCtx, first := r.Begin(context.Background(), "viewer")
	_, second := r.Begin(context.Background(), "viewer")

	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
	assert.ErrorIs(t, r.Commit("viewer", first, "late"), ErrStaleView)
	require.NoError(t, r.Commit("viewer", second, "current"))

	var got string
	require.NoError(t, r.Update("viewer", second, func(v string) error {
		got = v
		return nil
	}))
	assert.Equal(t, "current", got)
	assert.ErrorIs(t, r.Update("viewer", first, func(string) error { return nil }), ErrViewNotFound)
}

func TestRegistry_ViewersAreIndependent(t *testing.T) {
	r := NewRegistry[int](time.Minute)

	aCtx, a := r.Begin(context.Background(), "a")
	_, b := r.Begin(context.Background(), "b")

	assert.NoError(t, aCtx.Err())
	require.NoError(t, r.Commit("a", a, 1))
	require.NoError(t, r.Commit("b", b, 2))
	assert.ErrorIs(t, r.Update("b", a, func(int) error { return nil }), ErrViewNotFound)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_UpdateBeforeCommit(t *testing.T) {
	r := NewRegistry[int](time.Minute)
	_, id := r.Begin(context.Background(), "viewer")

	assert.ErrorIs(t, r.Update("viewer", id, func(int) error { return nil }), ErrViewNotFound)
	assert.ErrorIs(t, r.Update("viewer", uuid.New(), func(int) error { return nil }), ErrViewNotFound)
}

func TestRegistry_Discard(t *testing.T) {
	r := NewRegistry[int](time.Minute)
	ctx, id := r.Begin(context.Background(), "viewer")

	r.Discard("viewer", uuid.New())
	assert.Equal(t, 1, r.Len())

	r.Discard("viewer", id)
	assert.Equal(t, 0, r.Len())
	assert.Error(t, ctx.Err())
	assert.ErrorIs(t, r.Commit("viewer", id, 1), ErrStaleView)
}

func TestRegistry_IdleViewsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry[int](time.Minute)
	r.now = func() time.Time { return now }

	_, old := r.Begin(context.Background(), "idle")
	require.NoError(t, r.Commit("idle", old, 1))
	_, pending := r.Begin(context.Background(), "loading")

	now = now.Add(2 * time.Minute)
	_, fresh := r.Begin(context.Background(), "fresh")

	assert.ErrorIs(t, r.Update("idle", old, func(int) error { return nil }), ErrViewNotFound)
	assert.Equal(t, 2, r.Len(), "views still loading are kept")

	r.Discard("loading", pending)
	r.Discard("fresh", fresh)
}

func TestMachine_Transitions(t *testing.T) {
	assert.Equal(t, PageState("error"), PageFailed)

	m := newMachine()
	assert.Error(t, m.variantsTo(VariantsLoading), "variants wait for a ready page")

	require.NoError(t, m.to(PageFailed))
	assert.Error(t, m.to(PageReady))
	require.NoError(t, m.to(PageLoading))
	require.NoError(t, m.to(PageReady))
	assert.Error(t, m.to(PageFailed), "a ready page never errors")

	require.NoError(t, m.variantsTo(VariantsLoading))
	assert.Error(t, m.variantsTo(VariantsLoading))
	require.NoError(t, m.variantsTo(VariantsUnavailable))
	assert.Equal(t, PageReady, m.page)
	assert.Error(t, m.variantsTo(VariantsReady))
}
