package repository

import (
	"context"
	"testing"

	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingRequest(email string) *models.AccessRequest {
	return &models.AccessRequest{
		FirstName:     "Casey",
		LastName:      "Nguyen",
		Email:         email,
		RequestedRole: models.RoleFieldAgent,
	}
}

func TestAccessRequestRepository_CreateDefaultsToPending(t *testing.T) {
	t.Parallel()
	repo := NewAccessRequestRepository(setupTestDB(t))
	ctx := context.Background()

	req := newPendingRequest("casey@example.com")
	require.NoError(t, repo.Create(ctx, req))
	require.NotZero(t, req.ID)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccessRequestStatusPending, got.Status)
	assert.False(t, got.IsTerminal())
	assert.Nil(t, got.ProvisionedUserID)
	assert.False(t, got.RequestedAt.IsZero())
}

func TestAccessRequestRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewAccessRequestRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestAccessRequestRepository_ListFiltersAndOrders(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewAccessRequestRepository(db)
	ctx := context.Background()

	first := newPendingRequest("first@example.com")
	second := newPendingRequest("second@example.com")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	rejected := newPendingRequest("rejected@example.com")
	require.NoError(t, repo.Create(ctx, rejected))
	require.NoError(t, db.Model(&models.AccessRequest{}).
		Where("id = ?", rejected.ID).
		Update("status", models.AccessRequestStatusRejected).Error)

	pending, err := repo.List(ctx, models.AccessRequestStatusPending, 50, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID, "oldest submission first")
	assert.Equal(t, second.ID, pending[1].ID)

	all, err := repo.List(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAccessRequestRepository_CountByStatus(t *testing.T) {
	t.Parallel()
	repo := NewAccessRequestRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newPendingRequest("a@example.com")))
	require.NoError(t, repo.Create(ctx, newPendingRequest("b@example.com")))

	count, err := repo.CountByStatus(ctx, models.AccessRequestStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	approved, err := repo.CountByStatus(ctx, models.AccessRequestStatusApproved)
	require.NoError(t, err)
	assert.Zero(t, approved)
}
