package server

import (
	"fieldops/internal/cache"
	"fieldops/internal/models"
	"fieldops/internal/service"
	"fieldops/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetMyProfile returns the authenticated user's account
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUsers lists user accounts
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	users, err := s.userRepo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

type createUserBody struct {
	// When set, the insert and the request approval commit together.
	AccessRequestID uint `json:"access_request_id"`

	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	CompanyID       *uint  `json:"company_id"`
	ReviewNotes     string `json:"review_notes"`
}

// CreateUser creates a user account. With access_request_id set, the account
// insert and the request's transition to approved happen in one transaction.
// @Summary Create a user account
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserBody true "User account"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var body createUserBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reviewerID := c.Locals("userID").(uint)

	if body.AccessRequestID != 0 {
		return s.approveWithProvisioning(c, body.AccessRequestID, reviewerID,
			body.ReviewNotes, service.ProvisionInput{
				Username:        body.Username,
				Password:        body.Password,
				ConfirmPassword: body.ConfirmPassword,
				CompanyID:       body.CompanyID,
				Role:            body.Role,
			}, "")
	}

	role := models.Role(body.Role)
	if body.Role == "" {
		role = models.RoleFieldAgent
	}
	if !models.IsValidRole(role) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid role"))
	}

	if err := validation.ValidateProvisioning(validation.ProvisioningInput{
		Username:        body.Username,
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		CompanyID:       body.CompanyID,
	}); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if _, err := s.companyRepo.GetByID(c.Context(), *body.CompanyID); err != nil {
		return respondWithAppError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username:  body.Username,
		Email:     body.Email,
		Password:  string(hashed),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Role:      role,
		CompanyID: body.CompanyID,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondWithAppError(c, err)
	}

	cache.InvalidateOperations(c.Context())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}
