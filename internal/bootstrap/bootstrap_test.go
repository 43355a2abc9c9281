package bootstrap

import (
	"context"
	"testing"

	"fieldops/internal/config"
	"fieldops/internal/database"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

func TestEnsureDevRoot_Disabled(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{Env: "development"}

	require.NoError(t, EnsureDevRoot(context.Background(), db, cfg))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestEnsureDevRoot_CreatesDirector(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootUsername:  "devroot",
		DevRootEmail:     "devroot@example.com",
		DevRootPassword:  "bootstrap-secret",
	}

	require.NoError(t, EnsureDevRoot(context.Background(), db, cfg))

	var root models.User
	require.NoError(t, db.Where("username = ?", "devroot").First(&root).Error)
	assert.Equal(t, models.RoleOperationsDirector, root.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(root.Password), []byte("bootstrap-secret")))

	// Idempotent: a second boot leaves the account alone.
	require.NoError(t, EnsureDevRoot(context.Background(), db, cfg))
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureDevRoot_ForceCredentials(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootUsername:  "devroot",
		DevRootEmail:     "devroot@example.com",
		DevRootPassword:  "first-password",
	}
	require.NoError(t, EnsureDevRoot(context.Background(), db, cfg))

	cfg.DevRootPassword = "rotated-password"
	cfg.DevRootForceCredentials = true
	require.NoError(t, EnsureDevRoot(context.Background(), db, cfg))

	var root models.User
	require.NoError(t, db.Where("username = ?", "devroot").First(&root).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(root.Password), []byte("rotated-password")))
}

func TestEnsureDevRoot_RefusesProduction(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{
		Env:              "production",
		DevBootstrapRoot: true,
		DevRootPassword:  "whatever",
	}
	assert.Error(t, EnsureDevRoot(context.Background(), db, cfg))
}
