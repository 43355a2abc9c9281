package repository

import (
	"context"
	"testing"

	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRequester(t *testing.T, repo UserRepository) *models.User {
	t.Helper()
	user := &models.User{
		Username: "pm",
		Email:    "pm@example.com",
		Password: "hashed",
		Role:     models.RoleProjectManager,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestApprovalRequestRepository_CreateDefaults(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewApprovalRequestRepository(db)
	requester := seedRequester(t, NewUserRepository(db))
	ctx := context.Background()

	req := &models.ApprovalRequest{
		Type:              models.ApprovalTypeUserDeletion,
		RequestedByUserID: requester.ID,
	}
	require.NoError(t, repo.Create(ctx, req))

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, got.Status)
	assert.Equal(t, models.PriorityNormal, got.Priority)
	assert.False(t, got.IsTerminal())
	require.NotNil(t, got.RequestedByUser)
	assert.Equal(t, requester.ID, got.RequestedByUser.ID)
}

func TestApprovalRequestRepository_ListPriorityOrdering(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewApprovalRequestRepository(db)
	requester := seedRequester(t, NewUserRepository(db))
	ctx := context.Background()

	amount := 12000.0
	normal := &models.ApprovalRequest{
		Type:              models.ApprovalTypeBudget,
		Priority:          models.PriorityNormal,
		BudgetAmount:      &amount,
		RequestedByUserID: requester.ID,
	}
	urgent := &models.ApprovalRequest{
		Type:              models.ApprovalTypeEscalation,
		Priority:          models.PriorityUrgent,
		RequestedByUserID: requester.ID,
	}
	require.NoError(t, repo.Create(ctx, normal))
	require.NoError(t, repo.Create(ctx, urgent))

	pending, err := repo.List(ctx, models.ApprovalStatusPending, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, urgent.ID, pending[0].ID, "urgent items jump the queue")

	budgets, err := repo.List(ctx, "", models.ApprovalTypeBudget, 50, 0)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, normal.ID, budgets[0].ID)
}

func TestApprovalRequestRepository_CountByStatus(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewApprovalRequestRepository(db)
	requester := seedRequester(t, NewUserRepository(db))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.ApprovalRequest{
		Type:              models.ApprovalTypeUserDeletion,
		RequestedByUserID: requester.ID,
	}))

	count, err := repo.CountByStatus(ctx, models.ApprovalStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
