package service

import (
	"context"
	"testing"

	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opsRepoStub struct {
	statsFn  func(context.Context) (*models.OperationsStats, error)
	budgetFn func(context.Context) (*models.BudgetSummary, error)
	calls    int
}

func (s *opsRepoStub) Stats(ctx context.Context) (*models.OperationsStats, error) {
	s.calls++
	return s.statsFn(ctx)
}

func (s *opsRepoStub) BudgetSummary(ctx context.Context) (*models.BudgetSummary, error) {
	s.calls++
	return s.budgetFn(ctx)
}

func TestOperationsService_StatsPassThrough(t *testing.T) {
	// No Redis client configured in unit tests: every call loads from the repo.
	stub := &opsRepoStub{
		statsFn: func(context.Context) (*models.OperationsStats, error) {
			return &models.OperationsStats{
				PendingAccessRequests: 4,
				PendingApprovals:      2,
				PendingReviewTotal:    6,
			}, nil
		},
	}
	svc := NewOperationsService(stub)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.PendingReviewTotal)
	assert.Equal(t, 1, stub.calls)
}

func TestOperationsService_StatsRepoError(t *testing.T) {
	wantErr := models.NewInternalError(assert.AnError)
	stub := &opsRepoStub{
		statsFn: func(context.Context) (*models.OperationsStats, error) {
			return nil, wantErr
		},
	}
	svc := NewOperationsService(stub)

	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestOperationsService_BudgetSummary(t *testing.T) {
	stub := &opsRepoStub{
		budgetFn: func(context.Context) (*models.BudgetSummary, error) {
			return &models.BudgetSummary{PendingAmount: 500, PendingCount: 1}, nil
		},
	}
	svc := NewOperationsService(stub)

	summary, err := svc.BudgetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500.0, summary.PendingAmount)
}
