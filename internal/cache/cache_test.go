package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client, "test:"), mr
}

func TestMemory_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	c := NewMemory()
	c.now = func() time.Time { return now }

	in := payload{Name: "Tee", Price: 19.5, Tags: []string{"cotton"}}
	require.NoError(t, c.Marshal(ctx, "products:1", in, time.Minute))

	var out payload
	found, err := c.Unmarshal(ctx, "products:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	now = now.Add(2 * time.Minute)
	found, err = c.Unmarshal(ctx, "products:1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	// the next write sweeps the expired entry
	require.NoError(t, c.Marshal(ctx, "categories", []string{"a"}, time.Minute))
	assert.Equal(t, 1, c.Size())
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	require.NoError(t, c.Marshal(ctx, "catalog:products:1", 1, time.Minute))
	require.NoError(t, c.Marshal(ctx, "catalog:products:2", 2, time.Minute))
	require.NoError(t, c.Marshal(ctx, "catalog:categories", 3, time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "catalog:products:"))
	assert.Equal(t, 1, c.Size())
}

func TestRedis_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	var out payload
	found, err := c.Unmarshal(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Marshal(ctx, "products:1", payload{Name: "Tee"}, time.Second))
	assert.True(t, mr.Exists("test:products:1"))

	mr.FastForward(2 * time.Second)
	found, err = c.Unmarshal(ctx, "products:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Marshal(ctx, "catalog:products:1", 1, time.Minute))
	require.NoError(t, c.Marshal(ctx, "catalog:variants:g1", 2, time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "catalog:products:"))
	assert.False(t, mr.Exists("test:catalog:products:1"))
	assert.True(t, mr.Exists("test:catalog:variants:g1"))
}

// Property: whatever is written can be read back unchanged before it expires
func TestProperty_CachedValuesRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("redis and memory caches return the stored value", prop.ForAll(
		func(name string, price float64, tags []string) bool {
			ctx := context.Background()

			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer client.Close()

			in := payload{Name: name, Price: price, Tags: tags}
			for _, c := range []Cache{NewMemory(), NewRedis(client, "prop:")} {
				if err := c.Marshal(ctx, "key", in, time.Minute); err != nil {
					return false
				}
				var out payload
				found, err := c.Unmarshal(ctx, "key", &out)
				if err != nil || !found {
					return false
				}
				if out.Name != in.Name || out.Price != in.Price || len(out.Tags) != len(in.Tags) {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
		gen.Float64Range(0, 10000),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
