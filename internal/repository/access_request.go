package repository

import (
	"context"
	"errors"

	"fieldops/internal/models"
	"fieldops/internal/observability"

	"gorm.io/gorm"
)

// AccessRequestRepository defines persistence operations for access requests.
// Review transitions run inside handler-owned transactions; this interface
// covers creation and reads.
type AccessRequestRepository interface {
	Create(ctx context.Context, req *models.AccessRequest) error
	GetByID(ctx context.Context, id uint) (*models.AccessRequest, error)
	List(ctx context.Context, status models.AccessRequestStatus, limit, offset int) ([]models.AccessRequest, error)
	CountByStatus(ctx context.Context, status models.AccessRequestStatus) (int64, error)
}

type accessRequestRepository struct {
	db   *gorm.DB
	rlog *observability.RepoLogger
}

// NewAccessRequestRepository returns a new AccessRequestRepository implementation.
func NewAccessRequestRepository(db *gorm.DB) AccessRequestRepository {
	return &accessRequestRepository{
		db:   db,
		rlog: observability.NewRepoLogger("access_requests"),
	}
}

func (r *accessRequestRepository) Create(ctx context.Context, req *models.AccessRequest) error {
	if req.Status == "" {
		req.Status = models.AccessRequestStatusPending
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		r.rlog.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.rlog.LogCreate(ctx, map[string]interface{}{
		"id":         req.ID,
		"email":      req.Email,
		"dev_bypass": req.IsDevBypass,
	})
	return nil
}

func (r *accessRequestRepository) GetByID(ctx context.Context, id uint) (*models.AccessRequest, error) {
	var req models.AccessRequest
	if err := r.db.WithContext(ctx).
		Preload("ProvisionedUser").
		Preload("ReviewedByUser").
		First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Access request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// List returns requests filtered by status; an empty status returns all.
// Pending requests are listed oldest first so reviewers work the queue in
// submission order.
func (r *accessRequestRepository) List(ctx context.Context, status models.AccessRequestStatus, limit, offset int) ([]models.AccessRequest, error) {
	query := r.db.WithContext(ctx).
		Preload("ProvisionedUser").
		Preload("ReviewedByUser")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.AccessRequest
	if err := query.
		Order("requested_at ASC").
		Limit(limit).Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *accessRequestRepository) CountByStatus(ctx context.Context, status models.AccessRequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccessRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
