package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/testutil"
)

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGetDelete(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	ctx := context.Background()

	var got cachedThing
	found, err := GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "thing", cachedThing{Name: "a", Count: 2}, time.Minute))
	found, err = GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedThing{Name: "a", Count: 2}, got)

	require.NoError(t, SetCache(ctx, rdb, "other", 1, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, "thing", "other"))
	assert.False(t, mr.Exists("thing"))
	assert.False(t, mr.Exists("other"))
}

func TestCache_Expires(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "thing", cachedThing{Name: "a"}, time.Second))
	mr.FastForward(2 * time.Second)

	var got cachedThing
	found, err := GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
