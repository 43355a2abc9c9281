// Package bootstrap performs startup provisioning that must exist before the
// API can serve requests, such as the development root account.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"fieldops/internal/config"
	"fieldops/internal/middleware"
	"fieldops/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDevRoot creates the development operations director account if it
// does not exist. Without at least one reviewer the approval workflow is
// unreachable: nobody could approve the first access request.
func EnsureDevRoot(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if !cfg.DevBootstrapRoot {
		return nil
	}
	if cfg.Env == "production" {
		return fmt.Errorf("dev root bootstrap is not allowed in production")
	}

	username := cfg.DevRootUsername
	if username == "" {
		username = "root"
	}
	email := cfg.DevRootEmail
	if email == "" {
		email = "root@localhost"
	}
	if cfg.DevRootPassword == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD is required when DEV_BOOTSTRAP_ROOT is enabled")
	}

	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		if !cfg.DevRootForceCredentials {
			middleware.Logger.InfoContext(ctx, "dev root account already exists",
				"username", username)
			return nil
		}
		hashed, herr := bcrypt.GenerateFromPassword([]byte(cfg.DevRootPassword), bcrypt.DefaultCost)
		if herr != nil {
			return herr
		}
		existing.Password = string(hashed)
		existing.Email = email
		existing.Role = models.RoleOperationsDirector
		if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("reset dev root credentials: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "dev root credentials reset", "username", username)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("look up dev root: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevRootPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	root := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: "Root",
		LastName:  "Operator",
		Role:      models.RoleOperationsDirector,
	}
	if err := db.WithContext(ctx).Create(root).Error; err != nil {
		return fmt.Errorf("create dev root: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "dev root account created",
		"username", username, "email", email)
	return nil
}
