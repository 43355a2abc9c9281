package server

import (
	"errors"
	"strings"

	"fieldops/internal/cache"
	"fieldops/internal/middleware"
	"fieldops/internal/models"
	"fieldops/internal/notifications"
	"fieldops/internal/observability"
	"fieldops/internal/repository"
	"fieldops/internal/service"
	"fieldops/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createAccessRequestBody struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	RequestedRole string `json:"requested_role"`

	IsDevBypass  bool   `json:"is_dev_bypass"`
	TestingGoals string `json:"testing_goals"`
	CompanyName  string `json:"company_name"`
	CompanyType  string `json:"company_type"`
	Username     string `json:"username"`
}

// CreateAccessRequest handles public access request submission
// @Summary Submit an access request
// @Tags access-requests
// @Accept json
// @Produce json
// @Param request body createAccessRequestBody true "Access request"
// @Success 201 {object} models.AccessRequest
// @Failure 400 {object} models.ErrorResponse
// @Router /access-requests [post]
func (s *Server) CreateAccessRequest(c *fiber.Ctx) error {
	var body createAccessRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateName("first name", body.FirstName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateName("last name", body.LastName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(body.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}

	role := models.Role(body.RequestedRole)
	if body.RequestedRole == "" {
		role = models.RoleFieldAgent
	}
	if !models.IsValidRole(role) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid requested role"))
	}

	req := &models.AccessRequest{
		FirstName:     strings.TrimSpace(body.FirstName),
		LastName:      strings.TrimSpace(body.LastName),
		Email:         strings.ToLower(strings.TrimSpace(body.Email)),
		Phone:         strings.TrimSpace(body.Phone),
		RequestedRole: role,
		Status:        models.AccessRequestStatusPending,
	}

	if body.IsDevBypass {
		if !s.featureFlags.Enabled("dev_bypass", 0) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Dev bypass requests are not accepted"))
		}
		if strings.TrimSpace(body.CompanyName) == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("company name is required for dev bypass requests"))
		}
		companyType := models.CompanyType(body.CompanyType)
		if body.CompanyType == "" {
			companyType = models.CompanyTypeService
		}
		if !models.IsValidCompanyType(companyType) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("invalid company type"))
		}
		if body.Username != "" {
			if err := validation.ValidateUsername(body.Username); err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
			}
		}

		req.IsDevBypass = true
		req.TestingGoals = body.TestingGoals
		req.CompanyName = strings.TrimSpace(body.CompanyName)
		req.CompanyType = companyType
		req.Username = body.Username
		// Dev-bypass approval provisions the company administrator.
		req.RequestedRole = models.RoleAdministrator
	}

	if err := s.accessRepo.Create(c.Context(), req); err != nil {
		return respondWithAppError(c, err)
	}

	cache.InvalidateOperations(c.Context())
	s.publishEvent(c, notifications.Event{
		Type:      notifications.EventAccessRequestCreated,
		RequestID: req.ID,
		Status:    string(req.Status),
	})

	return c.Status(fiber.StatusCreated).JSON(req)
}

// GetAccessRequests lists access requests, optionally filtered by status
// @Summary List access requests
// @Tags access-requests
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /access-requests [get]
func (s *Server) GetAccessRequests(c *fiber.Ctx) error {
	// Reviewers triage the pending queue; listing everything is opt-in.
	status := models.AccessRequestStatus(c.Query("status", string(models.AccessRequestStatusPending)))
	if status == "all" {
		status = ""
	}
	if status != "" &&
		status != models.AccessRequestStatusPending &&
		status != models.AccessRequestStatusApproved &&
		status != models.AccessRequestStatusRejected {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status filter"))
	}

	page := parsePagination(c, 50)
	requests, err := s.accessRepo.List(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetAccessRequest returns a single access request
// @Summary Get an access request by ID
// @Tags access-requests
// @Produce json
// @Param id path int true "Access request ID"
// @Success 200 {object} models.AccessRequest
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id} [get]
func (s *Server) GetAccessRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	req, err := s.accessRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(req)
}

type reviewAccessRequestBody struct {
	Status       string                  `json:"status"`
	Notes        string                  `json:"notes"`
	Provisioning *service.ProvisionInput `json:"provisioning"`
}

// ReviewAccessRequest applies an approve or reject decision to a pending request.
// Approval provisions the user account in the same transaction, so an approved
// request always has a linked account.
// @Summary Review an access request
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path int true "Access request ID"
// @Param review body reviewAccessRequestBody true "Review decision"
// @Success 200 {object} models.AccessRequest
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id}/review [patch]
func (s *Server) ReviewAccessRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body reviewAccessRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reviewerID := c.Locals("userID").(uint)

	switch body.Status {
	case "approved":
		req, err := s.accessRepo.GetByID(c.Context(), id)
		if err != nil {
			return respondWithAppError(c, err)
		}

		in := service.ProvisionInput{}
		if body.Provisioning != nil {
			in = *body.Provisioning
		}

		// Non-bypass approval needs the operator-entered account details;
		// without them the request stays pending and re-approvable.
		if !req.IsDevBypass && body.Provisioning == nil {
			return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
				models.NewValidationError("provisioning required: create the account via POST /api/users or include provisioning details"))
		}

		// Bypass approvals can run with nothing but the decision: the
		// account gets a generated initial password returned once.
		initialPassword := ""
		if req.IsDevBypass && in.Password == "" {
			initialPassword = generateInitialPassword()
			in.Password = initialPassword
			in.ConfirmPassword = initialPassword
		}

		return s.approveWithProvisioning(c, id, reviewerID, body.Notes, in, initialPassword)
	case "rejected":
		return s.reject(c, id, reviewerID, body.Notes)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status must be approved or rejected"))
	}
}

// generateInitialPassword creates a one-time password for accounts
// provisioned without operator-entered credentials.
func generateInitialPassword() string {
	return "fo-" + uuid.NewString()
}

type legacyApproveBody struct {
	UserID      uint   `json:"user_id"`
	ReviewNotes string `json:"review_notes"`
}

// ApproveAccessRequest is the legacy approval endpoint. It only links an
// account that already exists; it can no longer flip a request to approved
// without one.
// @Summary Approve an access request (legacy)
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path int true "Access request ID"
// @Param approval body legacyApproveBody true "Approval"
// @Success 200 {object} models.AccessRequest
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id}/approve [post]
func (s *Server) ApproveAccessRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body legacyApproveBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if body.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("user_id of a provisioned account is required; use the review endpoint to provision and approve in one step"))
	}

	user, err := s.userRepo.GetByID(c.Context(), body.UserID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	reviewerID := c.Locals("userID").(uint)
	var reviewed *models.AccessRequest
	txErr := s.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var req models.AccessRequest
		if err := lockForUpdate(tx).First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Access request", id)
			}
			return models.NewInternalError(err)
		}
		if req.IsTerminal() {
			observability.RecordStateConflict("access_request")
			return models.NewStateConflictError("access request has already been reviewed")
		}

		req.Status = models.AccessRequestStatusApproved
		req.ProvisionedUserID = &user.ID
		req.ReviewedByUserID = &reviewerID
		req.ReviewNotes = body.ReviewNotes
		if err := tx.Save(&req).Error; err != nil {
			return models.NewInternalError(err)
		}
		reviewed = &req
		return nil
	})
	if txErr != nil {
		return respondWithAppError(c, txErr)
	}

	s.afterAccessReview(c, reviewed, "approved")
	return c.JSON(reviewed)
}

type rejectAccessRequestBody struct {
	ReviewNotes string `json:"review_notes"`
}

// RejectAccessRequest rejects a pending access request
// @Summary Reject an access request
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path int true "Access request ID"
// @Param rejection body rejectAccessRequestBody true "Rejection"
// @Success 200 {object} models.AccessRequest
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id}/reject [post]
func (s *Server) RejectAccessRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body rejectAccessRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reviewerID := c.Locals("userID").(uint)
	return s.reject(c, id, reviewerID, body.ReviewNotes)
}

// approveWithProvisioning creates the account and approves the request in one
// transaction. The expensive parts (validation, duplicate checks, bcrypt) run
// before the transaction opens; only the terminal-state check and the inserts
// happen under the row lock.
func (s *Server) approveWithProvisioning(
	c *fiber.Ctx, id uint, reviewerID uint, notes string,
	in service.ProvisionInput, initialPassword string,
) error {
	req, err := s.accessRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if req.IsTerminal() {
		observability.RecordStateConflict("access_request")
		return respondWithAppError(c,
			models.NewStateConflictError("access request has already been reviewed"))
	}

	if req.IsDevBypass && in.Username == "" {
		in.Username = req.Username
	}

	user, err := s.provisioning.BuildUser(c.Context(), req, in)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusUnprocessableEntity, appErr)
		}
		return respondWithAppError(c, err)
	}

	var reviewed *models.AccessRequest
	txErr := s.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var locked models.AccessRequest
		if err := lockForUpdate(tx).First(&locked, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Access request", id)
			}
			return models.NewInternalError(err)
		}
		if locked.IsTerminal() {
			observability.RecordStateConflict("access_request")
			return models.NewStateConflictError("access request has already been reviewed")
		}

		if locked.IsDevBypass {
			company := models.Company{
				Name:        locked.CompanyName,
				CompanyType: locked.CompanyType,
			}
			if err := tx.Create(&company).Error; err != nil {
				if repository.IsUniqueConstraintError(err) {
					return models.NewStateConflictError("a company with this name already exists")
				}
				return models.NewInternalError(err)
			}
			user.CompanyID = &company.ID
		}

		if err := tx.Create(user).Error; err != nil {
			if repository.IsUniqueConstraintError(err) {
				return models.NewStateConflictError("username or email already taken")
			}
			return models.NewInternalError(err)
		}

		locked.Status = models.AccessRequestStatusApproved
		locked.ProvisionedUserID = &user.ID
		locked.ReviewedByUserID = &reviewerID
		locked.ReviewNotes = notes
		if err := tx.Save(&locked).Error; err != nil {
			return models.NewInternalError(err)
		}
		reviewed = &locked
		return nil
	})
	if txErr != nil {
		return respondWithAppError(c, txErr)
	}

	cache.InvalidateCompanies(c.Context())
	s.afterAccessReview(c, reviewed, "approved")

	response := fiber.Map{
		"request": reviewed,
		"user":    user,
	}
	if initialPassword != "" {
		// Shown exactly once; only the bcrypt hash is stored.
		response["initial_password"] = initialPassword
	}
	return c.JSON(response)
}

// reject flips a pending request to rejected.
func (s *Server) reject(c *fiber.Ctx, id uint, reviewerID uint, notes string) error {
	var reviewed *models.AccessRequest
	txErr := s.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var req models.AccessRequest
		if err := lockForUpdate(tx).First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Access request", id)
			}
			return models.NewInternalError(err)
		}
		if req.IsTerminal() {
			observability.RecordStateConflict("access_request")
			return models.NewStateConflictError("access request has already been reviewed")
		}

		req.Status = models.AccessRequestStatusRejected
		req.ReviewedByUserID = &reviewerID
		req.ReviewNotes = notes
		if err := tx.Save(&req).Error; err != nil {
			return models.NewInternalError(err)
		}
		reviewed = &req
		return nil
	})
	if txErr != nil {
		return respondWithAppError(c, txErr)
	}

	s.afterAccessReview(c, reviewed, "rejected")
	return c.JSON(reviewed)
}

// afterAccessReview performs the post-commit bookkeeping for a decision:
// cache invalidation, the workflow event, and the decision counter.
func (s *Server) afterAccessReview(c *fiber.Ctx, req *models.AccessRequest, decision string) {
	cache.InvalidateAccessRequest(c.Context(), req.ID)
	observability.RecordReviewDecision("access_request", decision)
	s.publishEvent(c, notifications.Event{
		Type:      notifications.EventAccessRequestReviewed,
		RequestID: req.ID,
		Status:    string(req.Status),
		ActorID:   derefUint(req.ReviewedByUserID),
	})
}

// publishEvent publishes best-effort: a Redis outage never fails the request.
func (s *Server) publishEvent(c *fiber.Ctx, ev notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishEvent(c.Context(), ev); err != nil {
		middleware.Logger.WarnContext(c.UserContext(),
			"failed to publish workflow event", "error", err)
	}
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
