package models

// OperationsStats is the dashboard aggregate shown to operations directors.
// PendingReviewTotal is always the sum of the two pending counts.
type OperationsStats struct {
	PendingAccessRequests  int64 `json:"pending_access_requests"`
	PendingApprovals       int64 `json:"pending_approvals"`
	PendingReviewTotal     int64 `json:"pending_review_total"`
	ApprovedAccessRequests int64 `json:"approved_access_requests"`
	RejectedAccessRequests int64 `json:"rejected_access_requests"`
	TotalUsers             int64 `json:"total_users"`
	TotalCompanies         int64 `json:"total_companies"`
}

// BudgetSummary aggregates budget-approval items for the dashboard.
type BudgetSummary struct {
	PendingAmount  float64 `json:"pending_amount"`
	ApprovedAmount float64 `json:"approved_amount"`
	PendingCount   int64   `json:"pending_count"`
	UrgentCount    int64   `json:"urgent_count"`
}
