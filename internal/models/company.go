package models

import (
	"time"

	"gorm.io/gorm"
)

// CompanyType distinguishes service providers from client organizations.
type CompanyType string

const (
	// CompanyTypeService marks a company that employs field agents.
	CompanyTypeService CompanyType = "service"
	// CompanyTypeClient marks a company that consumes field services.
	CompanyTypeClient CompanyType = "client"
)

// IsValidCompanyType reports whether t is a known company type.
func IsValidCompanyType(t CompanyType) bool {
	return t == CompanyTypeService || t == CompanyTypeClient
}

// Company represents an onboarded organization.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:160;not null;uniqueIndex" json:"name"`
	CompanyType CompanyType    `gorm:"type:varchar(20);not null;default:'service'" json:"company_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
