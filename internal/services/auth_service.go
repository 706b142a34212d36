package services

import (
	"context"
	"time"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/session"
)

// AdminDirectory, CompanyDirectory and EmployeeDirectory are the lookup
// surfaces the identity service needs, implemented by the corresponding
// repositories.
type AdminDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type CompanyDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.Company, error)
}

type EmployeeDirectory interface {
	GetByUsernameWithChain(ctx context.Context, username string) (*models.Employee, bool, bool, error)
}

// AuthService verifies credentials against the stored records, applies
// the cascading active-status checks and issues a session principal.
type AuthService struct {
	Admins     AdminDirectory
	Companies  CompanyDirectory
	Employees  EmployeeDirectory
	JWTManager *auth.JWTManager
	SessionTTL time.Duration
}

func NewAuthService(admins AdminDirectory, companies CompanyDirectory, employees EmployeeDirectory, jwtManager *auth.JWTManager, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		Admins:     admins,
		Companies:  companies,
		Employees:  employees,
		JWTManager: jwtManager,
		SessionTTL: sessionTTL,
	}
}

// Authenticate resolves the principal record in the table named by the
// claimed role and verifies the password against the stored hash. All
// failure modes collapse to ErrInvalidCredentials: unknown username,
// wrong password and an inactive link anywhere in the
// employee -> branch -> company chain are indistinguishable to the
// caller. Authentication is all-or-nothing; no partial principal is ever
// returned.
func (s *AuthService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var principal *models.Principal
	var err error

	// The claimed role only selects the table to query; the stored role
	// is authoritative. Any employee-family claim resolves through the
	// employee table.
	switch req.Role {
	case models.RoleAdmin:
		principal, err = s.authenticateAdmin(ctx, req.Username, req.Password)
	case models.RoleCompany:
		principal, err = s.authenticateCompany(ctx, req.Username, req.Password)
	default:
		principal, err = s.authenticateEmployee(ctx, req.Username, req.Password)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(principal)
	if err != nil {
		return nil, err
	}

	session.Save(ctx, principal, s.SessionTTL)

	return &models.AuthResponse{
		Token:     token,
		Principal: principal,
	}, nil
}

func (s *AuthService) authenticateAdmin(ctx context.Context, username, password string) (*models.Principal, error) {
	admin, err := s.Admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{
		ID:         admin.ID,
		Username:   admin.Username,
		Name:       admin.ProfileName,
		Role:       models.RoleAdmin,
		ProfilePic: admin.ProfilePic,
	}, nil
}

func (s *AuthService) authenticateCompany(ctx context.Context, username, password string) (*models.Principal, error) {
	company, err := s.Companies.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !company.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(company.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{
		ID:         company.ID,
		Username:   company.Username,
		Name:       company.CompanyName,
		Role:       models.RoleCompany,
		ProfilePic: company.ProfilePic,
		CompanyID:  company.ID,
	}, nil
}

func (s *AuthService) authenticateEmployee(ctx context.Context, username, password string) (*models.Principal, error) {
	employee, branchActive, companyActive, err := s.Employees.GetByUsernameWithChain(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	// One inactive link anywhere in the chain denies the login,
	// password correctness notwithstanding
	if !employee.IsActive || !branchActive || !companyActive {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(employee.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{
		ID:         employee.ID,
		Username:   employee.Username,
		Name:       employee.EmployeeName,
		Role:       employee.Role, // stored role wins over the claimed one
		ProfilePic: employee.ProfilePic,
		CompanyID:  employee.CompanyID,
		BranchID:   employee.BranchID,
	}, nil
}

// Logout revokes the persisted session. Idempotent; always succeeds.
func (s *AuthService) Logout(ctx context.Context, role string, id int) {
	session.Delete(ctx, role, id)
}
