package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsPayload struct {
	PendingAccessRequests int `json:"pending_access_requests"`
	PendingApprovals      int `json:"pending_approvals"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	in := statsPayload{PendingAccessRequests: 3, PendingApprovals: 2}
	require.NoError(t, SetJSON(ctx, OperationsStatsKey, in, StatsTTL))

	var out statsPayload
	require.NoError(t, GetJSON(ctx, OperationsStatsKey, &out))
	assert.Equal(t, in, out)
}

func TestGetJSON_Miss(t *testing.T) {
	setupMiniredis(t)

	var out statsPayload
	err := GetJSON(context.Background(), OperationsStatsKey, &out)
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestGetJSON_NilClientIsMiss(t *testing.T) {
	SetClient(nil)

	var out statsPayload
	err := GetJSON(context.Background(), OperationsStatsKey, &out)
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestCacheAside_LoadsOnceThenHits(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func() (interface{}, error) {
		loads++
		return statsPayload{PendingAccessRequests: 7}, nil
	}

	var first statsPayload
	require.NoError(t, CacheAside(ctx, OperationsStatsKey, StatsTTL, &first, load))
	assert.Equal(t, 7, first.PendingAccessRequests)

	var second statsPayload
	require.NoError(t, CacheAside(ctx, OperationsStatsKey, StatsTTL, &second, load))
	assert.Equal(t, 7, second.PendingAccessRequests)
	assert.Equal(t, 1, loads, "second read should come from cache")
}

func TestCacheAside_TTLExpiry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func() (interface{}, error) {
		loads++
		return statsPayload{PendingApprovals: loads}, nil
	}

	var out statsPayload
	require.NoError(t, CacheAside(ctx, OperationsStatsKey, 30*time.Second, &out, load))
	mr.FastForward(31 * time.Second)
	require.NoError(t, CacheAside(ctx, OperationsStatsKey, 30*time.Second, &out, load))
	assert.Equal(t, 2, loads, "expired entry should trigger a reload")
}

func TestInvalidateOperations(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, OperationsStatsKey, statsPayload{PendingApprovals: 1}, StatsTTL))
	require.NoError(t, SetJSON(ctx, BudgetSummaryKey, statsPayload{}, BudgetSummaryTTL))

	InvalidateOperations(ctx)

	assert.False(t, mr.Exists(OperationsStatsKey))
	assert.False(t, mr.Exists(BudgetSummaryKey))
}

func TestCacheAside_LoadError(t *testing.T) {
	setupMiniredis(t)

	wantErr := errors.New("db down")
	var out statsPayload
	err := CacheAside(context.Background(), OperationsStatsKey, StatsTTL, &out, func() (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
