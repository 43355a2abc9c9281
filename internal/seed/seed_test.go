package seed

import (
	"testing"

	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedWorkflow(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, Options{
		NumCompanies:      2,
		NumUsersPerCo:     3,
		NumAccessRequests: 4,
		NumApprovals:      5,
		SkipBcrypt:        true,
	})

	require.NoError(t, s.SeedWorkflow())

	var companies, users, access, approvals int64
	db.Model(&models.Company{}).Count(&companies)
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.AccessRequest{}).Count(&access)
	db.Model(&models.ApprovalRequest{}).Count(&approvals)

	assert.Equal(t, int64(2), companies)
	assert.Equal(t, int64(6), users)
	assert.Equal(t, int64(4), access)
	assert.Equal(t, int64(5), approvals)

	var pending int64
	db.Model(&models.AccessRequest{}).
		Where("status = ?", models.AccessRequestStatusPending).Count(&pending)
	assert.Equal(t, access, pending, "seeded requests start pending")

	var admins int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdministrator).Count(&admins)
	assert.Equal(t, int64(2), admins, "one administrator per company")
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})
	require.NoError(t, s.SeedWorkflow())
	require.NoError(t, s.ClearAll())

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestCreateApprovalRequest_BudgetGetsAmount(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	company, err := s.CreateCompany()
	require.NoError(t, err)
	user, err := s.CreateUser(company, models.RoleManager)
	require.NoError(t, err)

	req, err := s.CreateApprovalRequest(user, func(r *models.ApprovalRequest) {
		r.Type = models.ApprovalTypeBudget
		if r.BudgetAmount == nil {
			amount := 1200.0
			r.BudgetAmount = &amount
		}
	})
	require.NoError(t, err)
	require.NotNil(t, req.BudgetAmount)
	assert.Greater(t, *req.BudgetAmount, 0.0)
}
