package models

import "time"

// Employee roles. Managers and assistant managers are employees with
// elevated permissions; the stored role is authoritative.
const (
	RoleAdmin       = "admin"
	RoleCompany     = "company"
	RoleManager     = "manager"
	RoleAsstManager = "asst_manager"
	RoleEmployee    = "employee"
)

type Employee struct {
	ID           int       `json:"id"`
	EmployeeName string    `json:"employee_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	ProfilePic   string    `json:"profile_pic,omitempty"`
	Role         string    `json:"role"` // manager, asst_manager or employee
	CompanyID    int       `json:"company_id"`
	BranchID     int       `json:"branch_id"`
	BranchName   string    `json:"branch_name,omitempty"` // joined for listings
	IsActive     bool      `json:"is_active"`
	CreatedBy    string    `json:"created_by"` // role of creator
	CreatedByID  int       `json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	EmployeeName string `json:"employee_name"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ProfilePic   string `json:"profile_pic,omitempty"`
	Role         string `json:"role"`
	BranchID     int    `json:"branch_id"`
}

// UpdateEmployeeRoleRequest represents the request body for changing an employee's role
type UpdateEmployeeRoleRequest struct {
	Role string `json:"role"`
}

// UpdateEmployeeProfileRequest represents the request body for updating an employee profile
type UpdateEmployeeProfileRequest struct {
	EmployeeName string `json:"employee_name"`
	ProfilePic   string `json:"profile_pic,omitempty"`
}

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	CompanyID int
	BranchID  int
	Role      string
}
