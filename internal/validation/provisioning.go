// Package validation contains input validation for access requests and
// account provisioning.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minPasswordLength = 8

// ValidateUsername validates username format.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters and contain only letters, numbers, dots, hyphens, and underscores")
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is invalid")
	}
	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// ValidateName validates a first or last name field.
func ValidateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(value) > 80 {
		return fmt.Errorf("%s must be at most 80 characters", field)
	}
	return nil
}

// ProvisioningInput holds the fields an operator submits when approving an
// access request and creating the account.
type ProvisioningInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	CompanyID       *uint
	IsDevBypass     bool
}

// ValidateProvisioning checks everything needed to create a user account
// from an approved access request. Dev-bypass approvals create their own
// company, so no company selection is required for them.
func ValidateProvisioning(in ProvisioningInput) error {
	if err := ValidateName("first name", in.FirstName); err != nil {
		return err
	}
	if err := ValidateName("last name", in.LastName); err != nil {
		return err
	}
	if err := ValidateUsername(in.Username); err != nil {
		return err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("password confirmation does not match")
	}
	if !in.IsDevBypass && (in.CompanyID == nil || *in.CompanyID == 0) {
		return fmt.Errorf("a company must be selected")
	}
	return nil
}
