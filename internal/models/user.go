// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies what a user is allowed to do in the platform.
type Role string

const (
	// RoleOperationsDirector onboards companies and administrators and
	// reviews every kind of request.
	RoleOperationsDirector Role = "operations_director"
	// RoleAdministrator manages a company and reviews requests scoped to it.
	RoleAdministrator Role = "administrator"
	// RoleProjectManager owns projects and their work orders.
	RoleProjectManager Role = "project_manager"
	// RoleManager supervises dispatchers and field agents.
	RoleManager Role = "manager"
	// RoleDispatcher assigns field agents to work orders.
	RoleDispatcher Role = "dispatcher"
	// RoleFieldAgent performs field work and tracks time.
	RoleFieldAgent Role = "field_agent"
	// RoleClient rates service quality and approves payments.
	RoleClient Role = "client"
)

// ValidRoles lists every role accepted on access requests and user accounts.
var ValidRoles = []Role{
	RoleOperationsDirector,
	RoleAdministrator,
	RoleProjectManager,
	RoleManager,
	RoleDispatcher,
	RoleFieldAgent,
	RoleClient,
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	for _, known := range ValidRoles {
		if r == known {
			return true
		}
	}
	return false
}

// CanReviewRequests reports whether the role may approve or reject
// access and approval requests.
func (r Role) CanReviewRequests() bool {
	return r == RoleOperationsDirector || r == RoleAdministrator
}

// User represents an account in the field-service platform.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FirstName string         `gorm:"size:80" json:"first_name"`
	LastName  string         `gorm:"size:80" json:"last_name"`
	Phone     string         `gorm:"size:32" json:"phone"`
	Role      Role           `gorm:"type:varchar(32);not null;default:'field_agent';index" json:"role"`
	CompanyID *uint          `gorm:"index" json:"company_id"`
	Company   *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
