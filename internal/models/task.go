package models

import "time"

// Task assignment targets and assigner kinds
const (
	AssignedToBranch   = "branch"
	AssignedToEmployee = "employee"
)

type Task struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssignedTo   string    `json:"assigned_to"` // branch or employee
	AssignedID   int       `json:"assigned_id"`
	AssignedBy   string    `json:"assigned_by"` // company, manager or asst_manager
	AssignedByID int       `json:"assigned_by_id"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskCompletion is the fan-out row: one per (task, employee) pair,
// created at task creation time and mutated, never deleted.
type TaskCompletion struct {
	ID          int        `json:"id"`
	TaskID      int        `json:"task_id"`
	EmployeeID  int        `json:"employee_id"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CompletionDetail is a completion row joined with the employee for task detail views
type CompletionDetail struct {
	TaskCompletion
	EmployeeName string `json:"employee_name"`
	EmployeeRole string `json:"employee_role"`
}

// TaskWithDetails is a task enriched with its completion rows
type TaskWithDetails struct {
	Task
	Completions    []*CompletionDetail `json:"completions"`
	CompletedCount int                 `json:"completed_count"`
	TotalCount     int                 `json:"total_count"`
}

// CreateTaskRequest represents the request body for assigning a task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	AssignedID  int    `json:"assigned_id"`
}

// TaskFilter narrows task listings
type TaskFilter struct {
	CompanyID    int
	BranchID     int
	EmployeeID   int
	AssignedTo   string
	AssignedID   int
	AssignedBy   string
	AssignedByID int
	IsCompleted  *bool
}
