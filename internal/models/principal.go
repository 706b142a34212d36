package models

// Principal is the authenticated identity used to authorize everything else.
// Role is always the stored role, never the one claimed at login.
// CompanyID and BranchID are zero for admin; BranchID is zero for companies.
type Principal struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProfilePic string `json:"profile_pic,omitempty"`
	CompanyID  int    `json:"company_id,omitempty"`
	BranchID   int    `json:"branch_id,omitempty"`
}

// LoginRequest represents the request body for login.
// Role is a lookup hint only: admin, company or employee. The employee
// table resolves manager/asst_manager/employee from the stored record.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token     string     `json:"token"`
	Principal *Principal `json:"principal"`
}
