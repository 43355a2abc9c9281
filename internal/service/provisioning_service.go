// Package service contains business logic between handlers and repositories.
package service

import (
	"context"

	"fieldops/internal/models"
	"fieldops/internal/repository"
	"fieldops/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProvisioningService prepares user accounts for approved access requests.
// It validates operator input and produces an unsaved User; the caller
// persists it inside the same transaction that approves the request, so an
// approved request without an account can never be observed.
type ProvisioningService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewProvisioningService returns a new ProvisioningService.
func NewProvisioningService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *ProvisioningService {
	return &ProvisioningService{userRepo: userRepo, companyRepo: companyRepo}
}

// ProvisionInput carries the operator-entered fields for account creation.
type ProvisionInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	CompanyID       *uint  `json:"company_id"`
	Role            string `json:"role"`
}

// BuildUser validates input against the access request and returns a user
// ready to be inserted. Duplicate username/email surface as STATE_CONFLICT
// so a double-submitted approval converges instead of erroring opaquely.
func (s *ProvisioningService) BuildUser(ctx context.Context, req *models.AccessRequest, in ProvisionInput) (*models.User, error) {
	role := req.RequestedRole
	if in.Role != "" {
		role = models.Role(in.Role)
	}
	if !models.IsValidRole(role) {
		return nil, models.NewValidationError("invalid role")
	}

	if err := validation.ValidateProvisioning(validation.ProvisioningInput{
		Username:        in.Username,
		Email:           req.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		CompanyID:       in.CompanyID,
		IsDevBypass:     req.IsDevBypass,
	}); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewStateConflictError("a user with this email already exists")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewStateConflictError("username already taken")
	}

	var companyID *uint
	if !req.IsDevBypass {
		company, err := s.companyRepo.GetByID(ctx, *in.CompanyID)
		if err != nil {
			return nil, err
		}
		companyID = &company.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.User{
		Username:  in.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		CompanyID: companyID,
	}, nil
}
