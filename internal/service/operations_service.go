package service

import (
	"context"

	"fieldops/internal/cache"
	"fieldops/internal/models"
	"fieldops/internal/repository"
)

// OperationsService serves the dashboard aggregates through the cache.
type OperationsService struct {
	opsRepo repository.OperationsRepository
}

// NewOperationsService returns a new OperationsService.
func NewOperationsService(opsRepo repository.OperationsRepository) *OperationsService {
	return &OperationsService{opsRepo: opsRepo}
}

// Stats returns the dashboard counters, cached briefly so reviewer
// dashboards polling every few seconds do not hammer the database.
func (s *OperationsService) Stats(ctx context.Context) (*models.OperationsStats, error) {
	var stats models.OperationsStats
	err := cache.CacheAside(ctx, cache.OperationsStatsKey, cache.StatsTTL, &stats, func() (interface{}, error) {
		return s.opsRepo.Stats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// BudgetSummary returns the budget aggregates, cached like Stats.
func (s *OperationsService) BudgetSummary(ctx context.Context) (*models.BudgetSummary, error) {
	var summary models.BudgetSummary
	err := cache.CacheAside(ctx, cache.BudgetSummaryKey, cache.BudgetSummaryTTL, &summary, func() (interface{}, error) {
		return s.opsRepo.BudgetSummary(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
