package service

import (
	"context"
	"testing"

	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

type companyRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Company, error)
	getByNameFn func(context.Context, string) (*models.Company, error)
	createFn    func(context.Context, *models.Company) error
	listFn      func(context.Context) ([]models.Company, error)
}

func (s *companyRepoStub) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	return s.getByIDFn(ctx, id)
}
func (s *companyRepoStub) GetByName(ctx context.Context, name string) (*models.Company, error) {
	return s.getByNameFn(ctx, name)
}
func (s *companyRepoStub) Create(ctx context.Context, company *models.Company) error {
	return s.createFn(ctx, company)
}
func (s *companyRepoStub) List(ctx context.Context) ([]models.Company, error) {
	return s.listFn(ctx)
}

func noExistingUsers() *userRepoStub {
	return &userRepoStub{
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
	}
}

func pendingRequest() *models.AccessRequest {
	return &models.AccessRequest{
		ID:            1,
		FirstName:     "Dana",
		LastName:      "Okafor",
		Email:         "dana@example.com",
		Phone:         "555-0100",
		RequestedRole: models.RoleDispatcher,
		Status:        models.AccessRequestStatusPending,
	}
}

func validProvisionInput() ProvisionInput {
	companyID := uint(9)
	return ProvisionInput{
		Username:        "dokafor",
		Password:        "long-enough-pass",
		ConfirmPassword: "long-enough-pass",
		CompanyID:       &companyID,
	}
}

func TestBuildUser_Success(t *testing.T) {
	companies := &companyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Company, error) {
			return &models.Company{ID: id, Name: "Acme"}, nil
		},
	}
	svc := NewProvisioningService(noExistingUsers(), companies)

	user, err := svc.BuildUser(context.Background(), pendingRequest(), validProvisionInput())
	require.NoError(t, err)

	assert.Equal(t, "dokafor", user.Username)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, models.RoleDispatcher, user.Role, "role defaults to the requested role")
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, uint(9), *user.CompanyID)

	assert.NotEqual(t, "long-enough-pass", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("long-enough-pass")))
}

func TestBuildUser_RoleOverride(t *testing.T) {
	companies := &companyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Company, error) {
			return &models.Company{ID: id}, nil
		},
	}
	svc := NewProvisioningService(noExistingUsers(), companies)

	in := validProvisionInput()
	in.Role = string(models.RoleManager)
	user, err := svc.BuildUser(context.Background(), pendingRequest(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)

	in.Role = "warlord"
	_, err = svc.BuildUser(context.Background(), pendingRequest(), in)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestBuildUser_DuplicateEmailIsStateConflict(t *testing.T) {
	users := noExistingUsers()
	users.getByEmailFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 2}, nil
	}
	svc := NewProvisioningService(users, &companyRepoStub{})

	_, err := svc.BuildUser(context.Background(), pendingRequest(), validProvisionInput())
	require.Error(t, err)
	assert.Equal(t, "STATE_CONFLICT", err.(*models.AppError).Code)
}

func TestBuildUser_DuplicateUsernameIsStateConflict(t *testing.T) {
	users := noExistingUsers()
	users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 3}, nil
	}
	svc := NewProvisioningService(users, &companyRepoStub{})

	_, err := svc.BuildUser(context.Background(), pendingRequest(), validProvisionInput())
	require.Error(t, err)
	assert.Equal(t, "STATE_CONFLICT", err.(*models.AppError).Code)
}

func TestBuildUser_MissingCompany(t *testing.T) {
	svc := NewProvisioningService(noExistingUsers(), &companyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Company, error) {
			return nil, models.NewNotFoundError("Company", id)
		},
	})

	_, err := svc.BuildUser(context.Background(), pendingRequest(), validProvisionInput())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestBuildUser_DevBypassSkipsCompanyLookup(t *testing.T) {
	svc := NewProvisioningService(noExistingUsers(), &companyRepoStub{
		getByIDFn: func(context.Context, uint) (*models.Company, error) {
			panic("company lookup must not happen for dev-bypass requests")
		},
	})

	req := pendingRequest()
	req.IsDevBypass = true
	req.RequestedRole = models.RoleAdministrator

	in := validProvisionInput()
	in.CompanyID = nil
	user, err := svc.BuildUser(context.Background(), req, in)
	require.NoError(t, err)
	assert.Nil(t, user.CompanyID, "dev-bypass company is created by the approval transaction")
}

func TestBuildUser_PasswordMismatch(t *testing.T) {
	svc := NewProvisioningService(noExistingUsers(), &companyRepoStub{})

	in := validProvisionInput()
	in.ConfirmPassword = "something-else!"
	_, err := svc.BuildUser(context.Background(), pendingRequest(), in)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}
