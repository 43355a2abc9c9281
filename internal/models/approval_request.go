package models

import "time"

// ApprovalRequestType enumerates the non-access approvals operators review.
type ApprovalRequestType string

const (
	// ApprovalTypeUserDeletion is a request to delete a user account.
	ApprovalTypeUserDeletion ApprovalRequestType = "user_deletion"
	// ApprovalTypeBudget is a high-budget work-order or project approval.
	ApprovalTypeBudget ApprovalRequestType = "budget_approval"
	// ApprovalTypeEscalation is an escalated field issue.
	ApprovalTypeEscalation ApprovalRequestType = "issue_escalation"
)

// ApprovalRequestStatus defines lifecycle states for approval requests.
type ApprovalRequestStatus string

const (
	// ApprovalStatusPending indicates the item is awaiting review.
	ApprovalStatusPending ApprovalRequestStatus = "pending"
	// ApprovalStatusApproved indicates the item was approved.
	ApprovalStatusApproved ApprovalRequestStatus = "approved"
	// ApprovalStatusDenied indicates the item was denied.
	ApprovalStatusDenied ApprovalRequestStatus = "denied"
)

// ApprovalPriority orders pending approvals for operator triage.
type ApprovalPriority string

const (
	// PriorityNormal is the default priority.
	PriorityNormal ApprovalPriority = "normal"
	// PriorityHigh marks items that should be reviewed soon.
	PriorityHigh ApprovalPriority = "high"
	// PriorityUrgent marks items blocking field work.
	PriorityUrgent ApprovalPriority = "urgent"
)

// ApprovalRequest is a pending non-access approval item: user deletions,
// high-budget work orders, and issue escalations. Its state machine is
// independent from AccessRequest but obeys the same terminal-state rule.
type ApprovalRequest struct {
	ID           uint                  `gorm:"primaryKey" json:"id"`
	Type         ApprovalRequestType   `gorm:"type:varchar(32);not null;index" json:"type"`
	Status       ApprovalRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority     ApprovalPriority      `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	BudgetAmount *float64              `json:"budget_amount,omitempty"`
	Notes        string                `gorm:"type:text" json:"notes"`

	RequestedByUserID uint  `gorm:"not null;index" json:"requested_by"`
	RequestedByUser   *User `gorm:"foreignKey:RequestedByUserID" json:"requested_by_user,omitempty"`
	// TargetUserID is the account a user_deletion request refers to.
	TargetUserID *uint `gorm:"index" json:"target_user_id,omitempty"`
	TargetUser   *User `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	ReviewedByUserID  *uint `json:"reviewed_by_user_id"`
	ReviewedByUser    *User `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the item has already been reviewed.
func (r *ApprovalRequest) IsTerminal() bool {
	return r.Status != ApprovalStatusPending
}
