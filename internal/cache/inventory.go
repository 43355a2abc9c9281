package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	AccessRequestKeyPrefix = "access_request:%d"
	CompanyListKey         = "companies:list"
	OperationsStatsKey     = "operations:stats"
	BudgetSummaryKey       = "operations:budget_summary"
	PendingCountsKey       = "operations:pending_counts"
)

const (
	AccessRequestTTL = 5 * time.Minute
	CompanyListTTL   = 5 * time.Minute
	StatsTTL         = 30 * time.Second
	BudgetSummaryTTL = 30 * time.Second
)

func AccessRequestKey(id uint) string {
	return fmt.Sprintf(AccessRequestKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateAccessRequest drops the cached request along with the dashboard
// aggregates that count it.
func InvalidateAccessRequest(ctx context.Context, id uint) {
	Invalidate(ctx, AccessRequestKey(id))
	InvalidateOperations(ctx)
}

// InvalidateOperations drops every dashboard aggregate. Called after any
// review decision or approval change.
func InvalidateOperations(ctx context.Context) {
	Invalidate(ctx, OperationsStatsKey)
	Invalidate(ctx, BudgetSummaryKey)
	Invalidate(ctx, PendingCountsKey)
}

func InvalidateCompanies(ctx context.Context) {
	Invalidate(ctx, CompanyListKey)
}
