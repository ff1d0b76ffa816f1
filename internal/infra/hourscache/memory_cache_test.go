package hourscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/activity-finder/internal/domain/activity"
)

func TestMemoryCacheHonoursTTL(t *testing.T) {
	cache := NewMemoryCache()
	current := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }
	ctx := context.Background()

	record := activity.HoursRecord{Found: true, Hours: activity.OpeningHours{"Monday": {Open: "09:00", Close: "17:00"}}}
	require.NoError(t, cache.Set(ctx, "louvre", record, time.Hour))

	got, ok, err := cache.Get(ctx, "louvre")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, got)

	current = current.Add(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "louvre")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheKeepsNegativeRecords(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "ghost", activity.HoursRecord{}, 0))

	got, ok, err := cache.Get(ctx, "ghost")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, got.Found)
}
