package repository

import (
	"context"

	"fieldops/internal/models"

	"gorm.io/gorm"
)

// OperationsRepository aggregates workflow counts for the dashboard.
type OperationsRepository interface {
	Stats(ctx context.Context) (*models.OperationsStats, error)
	BudgetSummary(ctx context.Context) (*models.BudgetSummary, error)
}

type operationsRepository struct {
	db *gorm.DB
}

// NewOperationsRepository returns a new OperationsRepository implementation.
func NewOperationsRepository(db *gorm.DB) OperationsRepository {
	return &operationsRepository{db: db}
}

func (r *operationsRepository) Stats(ctx context.Context) (*models.OperationsStats, error) {
	db := r.db.WithContext(ctx)
	var stats models.OperationsStats

	counts := []struct {
		dest  *int64
		model interface{}
		query string
		args  []interface{}
	}{
		{&stats.PendingAccessRequests, &models.AccessRequest{}, "status = ?", []interface{}{models.AccessRequestStatusPending}},
		{&stats.ApprovedAccessRequests, &models.AccessRequest{}, "status = ?", []interface{}{models.AccessRequestStatusApproved}},
		{&stats.RejectedAccessRequests, &models.AccessRequest{}, "status = ?", []interface{}{models.AccessRequestStatusRejected}},
		{&stats.PendingApprovals, &models.ApprovalRequest{}, "status = ?", []interface{}{models.ApprovalStatusPending}},
		{&stats.TotalUsers, &models.User{}, "", nil},
		{&stats.TotalCompanies, &models.Company{}, "", nil},
	}

	for _, c := range counts {
		q := db.Model(c.model)
		if c.query != "" {
			q = q.Where(c.query, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	stats.PendingReviewTotal = stats.PendingAccessRequests + stats.PendingApprovals
	return &stats, nil
}

func (r *operationsRepository) BudgetSummary(ctx context.Context) (*models.BudgetSummary, error) {
	db := r.db.WithContext(ctx)
	var summary models.BudgetSummary

	sums := []struct {
		dest   *float64
		status models.ApprovalRequestStatus
	}{
		{&summary.PendingAmount, models.ApprovalStatusPending},
		{&summary.ApprovedAmount, models.ApprovalStatusApproved},
	}
	for _, s := range sums {
		if err := db.Model(&models.ApprovalRequest{}).
			Where("type = ? AND status = ?", models.ApprovalTypeBudget, s.status).
			Select("COALESCE(SUM(budget_amount), 0)").
			Scan(s.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	if err := db.Model(&models.ApprovalRequest{}).
		Where("type = ? AND status = ?", models.ApprovalTypeBudget, models.ApprovalStatusPending).
		Count(&summary.PendingCount).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.ApprovalRequest{}).
		Where("status = ? AND priority = ?", models.ApprovalStatusPending, models.PriorityUrgent).
		Count(&summary.UrgentCount).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &summary, nil
}
