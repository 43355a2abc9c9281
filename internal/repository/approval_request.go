package repository

import (
	"context"
	"errors"

	"fieldops/internal/models"
	"fieldops/internal/observability"

	"gorm.io/gorm"
)

// ApprovalRequestRepository defines persistence operations for approval
// requests (user deletions, budget approvals, issue escalations).
type ApprovalRequestRepository interface {
	Create(ctx context.Context, req *models.ApprovalRequest) error
	GetByID(ctx context.Context, id uint) (*models.ApprovalRequest, error)
	List(ctx context.Context, status models.ApprovalRequestStatus, reqType models.ApprovalRequestType, limit, offset int) ([]models.ApprovalRequest, error)
	CountByStatus(ctx context.Context, status models.ApprovalRequestStatus) (int64, error)
}

type approvalRequestRepository struct {
	db   *gorm.DB
	rlog *observability.RepoLogger
}

// NewApprovalRequestRepository returns a new ApprovalRequestRepository implementation.
func NewApprovalRequestRepository(db *gorm.DB) ApprovalRequestRepository {
	return &approvalRequestRepository{
		db:   db,
		rlog: observability.NewRepoLogger("approval_requests"),
	}
}

func (r *approvalRequestRepository) Create(ctx context.Context, req *models.ApprovalRequest) error {
	if req.Status == "" {
		req.Status = models.ApprovalStatusPending
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		r.rlog.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.rlog.LogCreate(ctx, map[string]interface{}{
		"id":   req.ID,
		"type": req.Type,
	})
	return nil
}

func (r *approvalRequestRepository) GetByID(ctx context.Context, id uint) (*models.ApprovalRequest, error) {
	var req models.ApprovalRequest
	if err := r.db.WithContext(ctx).
		Preload("RequestedByUser").
		Preload("ReviewedByUser").
		First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Approval request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// List returns approval requests filtered by status and type; empty filters
// match everything. Urgent items sort ahead of normal ones, then oldest first.
func (r *approvalRequestRepository) List(ctx context.Context, status models.ApprovalRequestStatus, reqType models.ApprovalRequestType, limit, offset int) ([]models.ApprovalRequest, error) {
	query := r.db.WithContext(ctx).
		Preload("RequestedByUser").
		Preload("ReviewedByUser")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if reqType != "" {
		query = query.Where("type = ?", reqType)
	}

	var requests []models.ApprovalRequest
	if err := query.
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 ELSE 2 END, created_at ASC").
		Limit(limit).Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *approvalRequestRepository) CountByStatus(ctx context.Context, status models.ApprovalRequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ApprovalRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
