package models

import "time"

// AccessRequestStatus defines lifecycle states for access requests.
type AccessRequestStatus string

const (
	// AccessRequestStatusPending indicates the request is awaiting review.
	AccessRequestStatusPending AccessRequestStatus = "pending"
	// AccessRequestStatusApproved indicates the request was accepted and a
	// user account exists for it.
	AccessRequestStatusApproved AccessRequestStatus = "approved"
	// AccessRequestStatusRejected indicates the request was denied.
	AccessRequestStatusRejected AccessRequestStatus = "rejected"
)

// AccessRequest is an application for platform access awaiting operator
// review. Once the status leaves pending it is terminal: a request is
// reviewed exactly once.
type AccessRequest struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	FirstName     string              `gorm:"size:80;not null" json:"first_name"`
	LastName      string              `gorm:"size:80;not null" json:"last_name"`
	Email         string              `gorm:"size:160;not null;index" json:"email"`
	Phone         string              `gorm:"size:32" json:"phone"`
	RequestedRole Role                `gorm:"type:varchar(32);not null" json:"requested_role"`
	Status        AccessRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Dev-bypass requests carry enough information to create a company and
	// its administrator in a single review action.
	IsDevBypass  bool        `gorm:"not null;default:false" json:"is_dev_bypass"`
	TestingGoals string      `gorm:"type:text" json:"testing_goals,omitempty"`
	CompanyName  string      `gorm:"size:160" json:"company_name,omitempty"`
	CompanyType  CompanyType `gorm:"type:varchar(20)" json:"company_type,omitempty"`
	Username     string      `gorm:"size:80" json:"username,omitempty"`

	// ProvisionedUserID is set in the same transaction that flips the
	// status to approved; approved without a user is unobservable.
	ProvisionedUserID *uint `gorm:"index" json:"provisioned_user_id"`
	ProvisionedUser   *User `gorm:"foreignKey:ProvisionedUserID" json:"provisioned_user,omitempty"`

	ReviewedByUserID *uint  `json:"reviewed_by_user_id"`
	ReviewedByUser   *User  `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`
	ReviewNotes      string `gorm:"type:text" json:"review_notes"`

	RequestedAt time.Time `gorm:"autoCreateTime" json:"requested_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsTerminal reports whether the request has already been reviewed.
func (r *AccessRequest) IsTerminal() bool {
	return r.Status != AccessRequestStatusPending
}
