package models

import "time"

// Report is a daily report. At most one row exists per (employee, date);
// resubmitting the same date updates the existing row.
type Report struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employee_id"`
	ReportDate time.Time `json:"report_date"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReportWithDetails is a report joined with employee and branch names for listings
type ReportWithDetails struct {
	Report
	EmployeeName string `json:"employee_name"`
	EmployeeRole string `json:"employee_role"`
	BranchName   string `json:"branch_name"`
}

// SubmitReportRequest represents the request body for submitting a daily report
type SubmitReportRequest struct {
	ReportDate string `json:"report_date"` // YYYY-MM-DD
	Content    string `json:"content"`
}

// ReportFilter narrows report listings
type ReportFilter struct {
	EmployeeID int
	BranchID   int
	CompanyID  int
	StartDate  string
	EndDate    string
}
