package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

type contextKey string

const PrincipalKey contextKey = "principal"

var errSuspended = errors.New("account suspended")

// AuthMiddleware validates JWT tokens and re-resolves the principal from
// the database on every request, so deactivating a company, branch or
// employee takes effect immediately instead of when the token expires.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	admins     *repositories.AdminRepository
	companies  *repositories.CompanyRepository
	employees  *repositories.EmployeeRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, admins *repositories.AdminRepository, companies *repositories.CompanyRepository, employees *repositories.EmployeeRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		admins:     admins,
		companies:  companies,
		employees:  employees,
	}
}

// Authenticate is a middleware that validates JWT tokens and loads the
// current principal into the request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.resolve(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the resolved principal holds one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.resolve(w, r)
			if !ok {
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if principal.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve validates the bearer token and reloads the principal from the
// database. Writes the error response itself and returns false on denial.
func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	principal, err := m.loadPrincipal(r.Context(), claims)
	if err != nil {
		http.Error(w, "Account suspended or not found", http.StatusForbidden)
		return nil, false
	}

	return principal, true
}

// loadPrincipal re-reads the principal's record and its active chain.
// Database values win over token claims.
func (m *AuthMiddleware) loadPrincipal(ctx context.Context, claims *auth.Claims) (*models.Principal, error) {
	switch claims.Role {
	case models.RoleAdmin:
		admin, err := m.admins.Get(ctx, claims.PrincipalID)
		if err != nil {
			return nil, err
		}
		return &models.Principal{
			ID:         admin.ID,
			Username:   admin.Username,
			Name:       admin.ProfileName,
			Role:       models.RoleAdmin,
			ProfilePic: admin.ProfilePic,
		}, nil

	case models.RoleCompany:
		company, err := m.companies.Get(ctx, claims.PrincipalID)
		if err != nil {
			return nil, err
		}
		if !company.IsActive {
			return nil, errSuspended
		}
		return &models.Principal{
			ID:         company.ID,
			Username:   company.Username,
			Name:       company.CompanyName,
			Role:       models.RoleCompany,
			ProfilePic: company.ProfilePic,
			CompanyID:  company.ID,
		}, nil

	default: // manager, asst_manager, employee
		employee, branchActive, companyActive, err := m.employees.GetByUsernameWithChain(ctx, claims.Username)
		if err != nil {
			return nil, err
		}
		if employee.ID != claims.PrincipalID || !employee.IsActive || !branchActive || !companyActive {
			return nil, errSuspended
		}
		return &models.Principal{
			ID:         employee.ID,
			Username:   employee.Username,
			Name:       employee.EmployeeName,
			Role:       employee.Role,
			ProfilePic: employee.ProfilePic,
			CompanyID:  employee.CompanyID,
			BranchID:   employee.BranchID,
		}, nil
	}
}

// GetPrincipalFromContext extracts the resolved principal from the request context
func GetPrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return principal, ok
}
