package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/config"
	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type fakeAdminDir struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminDir) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a, ok := f.admins[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

type fakeCompanyDir struct {
	companies map[string]*models.Company
}

func (f *fakeCompanyDir) GetByUsername(ctx context.Context, username string) (*models.Company, error) {
	c, ok := f.companies[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

type chainEntry struct {
	employee      *models.Employee
	branchActive  bool
	companyActive bool
}

type fakeEmployeeDir struct {
	employees map[string]chainEntry
}

func (f *fakeEmployeeDir) GetByUsernameWithChain(ctx context.Context, username string) (*models.Employee, bool, bool, error) {
	e, ok := f.employees[username]
	if !ok {
		return nil, false, false, pgx.ErrNoRows
	}
	return e.employee, e.branchActive, e.companyActive, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "test"

	adminHash := mustHash(t, "admin-pass")
	companyHash := mustHash(t, "company-pass")
	employeeHash := mustHash(t, "employee-pass")

	admins := &fakeAdminDir{admins: map[string]*models.Admin{
		"root": {ID: 1, Username: "root", ProfileName: "Administrator", PasswordHash: adminHash},
	}}
	companies := &fakeCompanyDir{companies: map[string]*models.Company{
		"acme":      {ID: 10, Username: "acme", CompanyName: "Acme Ltd", PasswordHash: companyHash, IsActive: true},
		"suspended": {ID: 11, Username: "suspended", CompanyName: "Gone Inc", PasswordHash: companyHash, IsActive: false},
	}}
	employees := &fakeEmployeeDir{employees: map[string]chainEntry{
		"mallory": {
			employee:      &models.Employee{ID: 20, Username: "mallory", EmployeeName: "Mallory", PasswordHash: employeeHash, Role: models.RoleManager, CompanyID: 10, BranchID: 5, IsActive: true},
			branchActive:  true,
			companyActive: true,
		},
		"deadbranch": {
			employee:      &models.Employee{ID: 21, Username: "deadbranch", EmployeeName: "Dora", PasswordHash: employeeHash, Role: models.RoleEmployee, CompanyID: 10, BranchID: 6, IsActive: true},
			branchActive:  false,
			companyActive: true,
		},
		"deadcompany": {
			employee:      &models.Employee{ID: 22, Username: "deadcompany", EmployeeName: "Carl", PasswordHash: employeeHash, Role: models.RoleEmployee, CompanyID: 11, BranchID: 7, IsActive: true},
			branchActive:  true,
			companyActive: false,
		},
		"inactive": {
			employee:      &models.Employee{ID: 23, Username: "inactive", EmployeeName: "Ines", PasswordHash: employeeHash, Role: models.RoleEmployee, CompanyID: 10, BranchID: 5, IsActive: false},
			branchActive:  true,
			companyActive: true,
		},
	}}

	return NewAuthService(admins, companies, employees, auth.NewJWTManager(cfg), time.Hour)
}

func TestAuthenticateAdmin(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Authenticate(context.Background(), &models.LoginRequest{
		Username: "root", Password: "admin-pass", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resp.Principal.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", resp.Principal.Role)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestAuthenticateCompany(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Authenticate(context.Background(), &models.LoginRequest{
		Username: "acme", Password: "company-pass", Role: models.RoleCompany,
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resp.Principal.CompanyID != 10 {
		t.Errorf("CompanyID = %d, want 10", resp.Principal.CompanyID)
	}
}

// The claimed role only selects the lookup table; the stored role is
// what the issued principal carries.
func TestAuthenticateStoredRoleWins(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Authenticate(context.Background(), &models.LoginRequest{
		Username: "mallory", Password: "employee-pass", Role: models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resp.Principal.Role != models.RoleManager {
		t.Errorf("role = %q, want manager (stored role)", resp.Principal.Role)
	}
	if resp.Principal.BranchID != 5 {
		t.Errorf("BranchID = %d, want 5", resp.Principal.BranchID)
	}
}

// Every denial collapses to the same error so callers cannot probe
// which accounts exist or which part of the chain is suspended.
func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc := newAuthFixture(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"empty credentials", models.LoginRequest{Role: models.RoleAdmin}},
		{"unknown admin", models.LoginRequest{Username: "ghost", Password: "x", Role: models.RoleAdmin}},
		{"wrong admin password", models.LoginRequest{Username: "root", Password: "nope", Role: models.RoleAdmin}},
		{"unknown company", models.LoginRequest{Username: "ghost", Password: "x", Role: models.RoleCompany}},
		{"suspended company", models.LoginRequest{Username: "suspended", Password: "company-pass", Role: models.RoleCompany}},
		{"unknown employee", models.LoginRequest{Username: "ghost", Password: "x", Role: models.RoleEmployee}},
		{"wrong employee password", models.LoginRequest{Username: "mallory", Password: "nope", Role: models.RoleEmployee}},
		{"inactive employee", models.LoginRequest{Username: "inactive", Password: "employee-pass", Role: models.RoleEmployee}},
		{"inactive branch", models.LoginRequest{Username: "deadbranch", Password: "employee-pass", Role: models.RoleEmployee}},
		{"inactive company chain", models.LoginRequest{Username: "deadcompany", Password: "employee-pass", Role: models.RoleEmployee}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), &tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticateTokenRoundTrip(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Authenticate(context.Background(), &models.LoginRequest{
		Username: "mallory", Password: "employee-pass", Role: models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	claims, err := svc.JWTManager.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.PrincipalID != 20 || claims.Role != models.RoleManager {
		t.Errorf("claims = (%d, %q), want (20, manager)", claims.PrincipalID, claims.Role)
	}
}
