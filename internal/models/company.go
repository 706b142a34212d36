package models

import "time"

type Company struct {
	ID           int       `json:"id"`
	CompanyName  string    `json:"company_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	ProfilePic   string    `json:"profile_pic,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedBy    int       `json:"created_by"` // admin id
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCompanyRequest represents the request body for creating a company.
// A main branch is created alongside the company in the same transaction.
type CreateCompanyRequest struct {
	CompanyName string `json:"company_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ProfilePic  string `json:"profile_pic,omitempty"`
}

// UpdateCompanyProfileRequest represents the request body for updating a company profile
type UpdateCompanyProfileRequest struct {
	CompanyName string `json:"company_name"`
	ProfilePic  string `json:"profile_pic,omitempty"`
}

// ChangePasswordRequest is shared by companies and employees
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ToggleStatusRequest represents the request body for activating/deactivating an entity
type ToggleStatusRequest struct {
	IsActive bool `json:"is_active"`
}
