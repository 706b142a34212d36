package models

import "time"

type Branch struct {
	ID           int       `json:"id"`
	BranchName   string    `json:"branch_name"`
	CompanyID    int       `json:"company_id"`
	IsMainBranch bool      `json:"is_main_branch"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateBranchRequest represents the request body for creating a branch
type CreateBranchRequest struct {
	BranchName string `json:"branch_name"`
}

// EmployeeCounts holds per-role employee totals for a branch
type EmployeeCounts struct {
	Total            int `json:"total"`
	Managers         int `json:"managers"`
	AsstManagers     int `json:"asst_managers"`
	GeneralEmployees int `json:"general_employees"`
}

// BranchWithCounts is a branch enriched with its employee counts
type BranchWithCounts struct {
	Branch
	EmployeeCounts EmployeeCounts `json:"employee_counts"`
}
