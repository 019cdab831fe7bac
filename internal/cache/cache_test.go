package cache

import (
	"context"
	"testing"

	"hermandad/internal/model"
	"hermandad/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, DefaultTTL, logger.NewNop()), mr
}

func TestRedisCache_ListingRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)
	key := ListingKey(gen, " Huari ", "Fiesta", 1, 9)

	_, ok = c.GetListing(ctx, key)
	assert.False(t, ok)

	c.SetListing(ctx, key, &model.Listing{
		Featured:     &model.Item{ID: 3, Title: "Fiesta", Region: "Huari"},
		Items:        []model.Item{{ID: 2}, {ID: 1}},
		TotalMatches: 3,
		TotalPages:   1,
		Page:         1,
	})

	got, ok := c.GetListing(ctx, key)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.Featured.ID)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, DefaultTTL, mr.TTL(key))
}

func TestListingKey_RegionKeepsCase(t *testing.T) {
	assert.NotEqual(t, ListingKey(0, "Huari", "", 1, 9), ListingKey(0, "huari", "", 1, 9))
	assert.Equal(t, ListingKey(0, " Huari ", "FIESTA", 1, 9), ListingKey(0, "Huari", "fiesta", 1, 9))
	assert.NotEqual(t, ListingKey(0, "Huari", "", 1, 9), ListingKey(1, "Huari", "", 1, 9))
}

func TestRedisCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	c.SetListing(ctx, ListingKey(gen, "Todos", "", 1, 9), &model.Listing{Page: 1})
	c.SetDetail(ctx, DetailKey(gen, 7), &model.ItemDetail{Item: model.Item{ID: 7}})
	require.NoError(t, mr.Set("sessions:other", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	next, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, gen+1, next)
	_, ok = c.GetDetail(ctx, DetailKey(next, 7))
	assert.False(t, ok)
	_, ok = c.GetListing(ctx, ListingKey(next, "Todos", "", 1, 9))
	assert.False(t, ok)
	assert.True(t, mr.Exists("sessions:other"))
}

func TestRedisCache_LateWriteAfterInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// 读库前取得的代数，读库期间发生了一次发布
	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	require.NoError(t, c.Invalidate(ctx))
	c.SetListing(ctx, ListingKey(gen, "Huari", "", 1, 9), &model.Listing{TotalMatches: 1})

	next, ok := c.Generation(ctx)
	require.True(t, ok)
	_, ok = c.GetListing(ctx, ListingKey(next, "Huari", "", 1, 9))
	assert.False(t, ok)
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, ok := c.Generation(context.Background())
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(DetailKey(0, 1), "{not json"))

	_, ok := c.GetDetail(context.Background(), DetailKey(0, 1))
	assert.False(t, ok)
}
