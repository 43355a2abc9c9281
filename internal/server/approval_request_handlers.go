package server

import (
	"errors"

	"fieldops/internal/cache"
	"fieldops/internal/models"
	"fieldops/internal/notifications"
	"fieldops/internal/observability"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createApprovalRequestBody struct {
	Type         string   `json:"type"`
	Priority     string   `json:"priority"`
	BudgetAmount *float64 `json:"budget_amount"`
	TargetUserID *uint    `json:"target_user_id"`
	Notes        string   `json:"notes"`
}

// CreateApprovalRequest files a new approval item for operator review
// @Summary Create an approval request
// @Tags approval-requests
// @Accept json
// @Produce json
// @Param request body createApprovalRequestBody true "Approval request"
// @Success 201 {object} models.ApprovalRequest
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /approval-requests [post]
func (s *Server) CreateApprovalRequest(c *fiber.Ctx) error {
	var body createApprovalRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reqType := models.ApprovalRequestType(body.Type)
	switch reqType {
	case models.ApprovalTypeUserDeletion, models.ApprovalTypeBudget, models.ApprovalTypeEscalation:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid approval request type"))
	}

	priority := models.ApprovalPriority(body.Priority)
	if body.Priority == "" {
		priority = models.PriorityNormal
	}
	switch priority {
	case models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid priority"))
	}

	if reqType == models.ApprovalTypeBudget {
		if body.BudgetAmount == nil || *body.BudgetAmount <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("budget approvals require a positive budget_amount"))
		}
	}
	if reqType == models.ApprovalTypeUserDeletion {
		if body.TargetUserID == nil || *body.TargetUserID == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("user deletion requests require a target_user_id"))
		}
		if _, err := s.userRepo.GetByID(c.Context(), *body.TargetUserID); err != nil {
			return respondWithAppError(c, err)
		}
	}

	req := &models.ApprovalRequest{
		Type:              reqType,
		Priority:          priority,
		BudgetAmount:      body.BudgetAmount,
		TargetUserID:      body.TargetUserID,
		Notes:             body.Notes,
		RequestedByUserID: c.Locals("userID").(uint),
	}
	if err := s.approvalRepo.Create(c.Context(), req); err != nil {
		return respondWithAppError(c, err)
	}

	cache.InvalidateOperations(c.Context())
	return c.Status(fiber.StatusCreated).JSON(req)
}

// GetApprovalRequests lists approval requests, urgent first
// @Summary List approval requests
// @Tags approval-requests
// @Produce json
// @Param status query string false "Filter by status (pending, approved, denied)"
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /approval-requests [get]
func (s *Server) GetApprovalRequests(c *fiber.Ctx) error {
	status := models.ApprovalRequestStatus(c.Query("status"))
	if status != "" &&
		status != models.ApprovalStatusPending &&
		status != models.ApprovalStatusApproved &&
		status != models.ApprovalStatusDenied {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status filter"))
	}

	reqType := models.ApprovalRequestType(c.Query("type"))
	if reqType != "" &&
		reqType != models.ApprovalTypeUserDeletion &&
		reqType != models.ApprovalTypeBudget &&
		reqType != models.ApprovalTypeEscalation {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid type filter"))
	}

	page := parsePagination(c, 50)
	requests, err := s.approvalRepo.List(c.Context(), status, reqType, page.Limit, page.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetApprovalRequest returns a single approval request
// @Summary Get an approval request by ID
// @Tags approval-requests
// @Produce json
// @Param id path int true "Approval request ID"
// @Success 200 {object} models.ApprovalRequest
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /approval-requests/{id} [get]
func (s *Server) GetApprovalRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	req, err := s.approvalRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(req)
}

type reviewApprovalRequestBody struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ReviewApprovalRequest applies an approve or deny decision to a pending
// approval item. Approving a user deletion soft-deletes the target account in
// the same transaction.
// @Summary Review an approval request
// @Tags approval-requests
// @Accept json
// @Produce json
// @Param id path int true "Approval request ID"
// @Param review body reviewApprovalRequestBody true "Review decision"
// @Success 200 {object} models.ApprovalRequest
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /approval-requests/{id}/review [patch]
func (s *Server) ReviewApprovalRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body reviewApprovalRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var newStatus models.ApprovalRequestStatus
	switch body.Status {
	case "approved":
		newStatus = models.ApprovalStatusApproved
	case "denied":
		newStatus = models.ApprovalStatusDenied
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status must be approved or denied"))
	}

	reviewerID := c.Locals("userID").(uint)
	var reviewed *models.ApprovalRequest
	txErr := s.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var req models.ApprovalRequest
		if err := lockForUpdate(tx).First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Approval request", id)
			}
			return models.NewInternalError(err)
		}
		if req.IsTerminal() {
			observability.RecordStateConflict("approval_request")
			return models.NewStateConflictError("approval request has already been reviewed")
		}

		if newStatus == models.ApprovalStatusApproved &&
			req.Type == models.ApprovalTypeUserDeletion && req.TargetUserID != nil {
			if err := tx.Delete(&models.User{}, *req.TargetUserID).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		req.Status = newStatus
		req.ReviewedByUserID = &reviewerID
		if body.Notes != "" {
			req.Notes = body.Notes
		}
		if err := tx.Save(&req).Error; err != nil {
			return models.NewInternalError(err)
		}
		reviewed = &req
		return nil
	})
	if txErr != nil {
		return respondWithAppError(c, txErr)
	}

	cache.InvalidateOperations(c.Context())
	observability.RecordReviewDecision("approval_request", string(newStatus))
	s.publishEvent(c, notifications.Event{
		Type:      notifications.EventApprovalRequestReviewed,
		RequestID: reviewed.ID,
		Status:    string(reviewed.Status),
		ActorID:   reviewerID,
	})

	return c.JSON(reviewed)
}
