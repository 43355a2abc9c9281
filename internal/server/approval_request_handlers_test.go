package server

import (
	"net/http"
	"testing"

	"fieldops/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateApprovalRequest_BudgetRequiresAmount(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/approval-requests", fiber.Map{
		"type":  "budget_approval",
		"notes": "generator rental for site 14",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/approval-requests", fiber.Map{
		"type":          "budget_approval",
		"priority":      "urgent",
		"budget_amount": 12500.0,
		"notes":         "generator rental for site 14",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.ApprovalRequest
	decodeJSON(t, resp, &created)
	assert.Equal(t, models.ApprovalStatusPending, created.Status)
	assert.Equal(t, models.PriorityUrgent, created.Priority)
	require.NotNil(t, created.BudgetAmount)
	assert.Equal(t, 12500.0, *created.BudgetAmount)
}

func TestReviewApprovalRequest_ApproveAndDeny(t *testing.T) {
	s, app, reviewer := newTestServer(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, s.db.Create(&models.ApprovalRequest{
			Type:              models.ApprovalTypeEscalation,
			Status:            models.ApprovalStatusPending,
			Priority:          models.PriorityNormal,
			RequestedByUserID: reviewer.ID,
		}).Error)
	}

	resp := doJSON(t, app, http.MethodPatch,
		"/api/approval-requests/1/review", fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved models.ApprovalRequest
	decodeJSON(t, resp, &approved)
	assert.Equal(t, models.ApprovalStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByUserID)
	assert.Equal(t, reviewer.ID, *approved.ReviewedByUserID)

	resp = doJSON(t, app, http.MethodPatch,
		"/api/approval-requests/2/review", fiber.Map{"status": "denied", "notes": "not blocking"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var denied models.ApprovalRequest
	decodeJSON(t, resp, &denied)
	assert.Equal(t, models.ApprovalStatusDenied, denied.Status)
	assert.Equal(t, "not blocking", denied.Notes)
}

func TestReviewApprovalRequest_TerminalConflicts(t *testing.T) {
	s, app, reviewer := newTestServer(t)
	require.NoError(t, s.db.Create(&models.ApprovalRequest{
		Type:              models.ApprovalTypeEscalation,
		Status:            models.ApprovalStatusPending,
		Priority:          models.PriorityNormal,
		RequestedByUserID: reviewer.ID,
	}).Error)

	resp := doJSON(t, app, http.MethodPatch,
		"/api/approval-requests/1/review", fiber.Map{"status": "denied"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch,
		"/api/approval-requests/1/review", fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeJSON(t, resp, &errResp)
	assert.Equal(t, "STATE_CONFLICT", errResp.Code)

	var stored models.ApprovalRequest
	require.NoError(t, s.db.First(&stored, 1).Error)
	assert.Equal(t, models.ApprovalStatusDenied, stored.Status, "first decision wins")
}

func TestReviewApprovalRequest_UserDeletionRemovesTarget(t *testing.T) {
	s, app, _ := newTestServer(t)

	target := &models.User{
		Username: "departing",
		Email:    "departing@example.com",
		Password: "irrelevant-hash",
		Role:     models.RoleFieldAgent,
	}
	require.NoError(t, s.db.Create(target).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/approval-requests", fiber.Map{
		"type":           "user_deletion",
		"target_user_id": target.ID,
		"notes":          "left the company",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.ApprovalRequest
	decodeJSON(t, resp, &created)

	resp = doJSON(t, app, http.MethodPatch,
		"/api/approval-requests/1/review", fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var gone models.User
	err := s.db.First(&gone, target.ID).Error
	assert.Error(t, err, "approved deletion soft-deletes the account")

	var stillThere models.User
	assert.NoError(t, s.db.Unscoped().First(&stillThere, target.ID).Error)
}

func TestCreateApprovalRequest_UserDeletionRequiresTarget(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/approval-requests", fiber.Map{
		"type": "user_deletion",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetApprovalRequests_UrgentFirst(t *testing.T) {
	s, app, reviewer := newTestServer(t)

	for _, p := range []models.ApprovalPriority{
		models.PriorityNormal, models.PriorityUrgent, models.PriorityHigh,
	} {
		require.NoError(t, s.db.Create(&models.ApprovalRequest{
			Type:              models.ApprovalTypeEscalation,
			Status:            models.ApprovalStatusPending,
			Priority:          p,
			RequestedByUserID: reviewer.ID,
		}).Error)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/approval-requests?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Requests []models.ApprovalRequest `json:"requests"`
	}
	decodeJSON(t, resp, &result)
	require.Len(t, result.Requests, 3)
	assert.Equal(t, models.PriorityUrgent, result.Requests[0].Priority)
	assert.Equal(t, models.PriorityHigh, result.Requests[1].Priority)
	assert.Equal(t, models.PriorityNormal, result.Requests[2].Priority)
}
