package services

import (
	"context"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

// EmployeeStore is implemented by repositories.EmployeeRepository
type EmployeeStore interface {
	Create(ctx context.Context, e *models.Employee) error
	Get(ctx context.Context, id int) (*models.Employee, error)
	List(ctx context.Context, f models.EmployeeFilter) ([]*models.Employee, error)
	ToggleActiveStatus(ctx context.Context, id int, isActive bool) error
	UpdateRole(ctx context.Context, id int, role string) error
	UpdateProfile(ctx context.Context, id int, employeeName, profilePic string) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

// BranchResolver looks up branches for ownership checks. Implemented by
// repositories.BranchRepository.
type BranchResolver interface {
	Get(ctx context.Context, id int) (*models.Branch, error)
}

type EmployeeService struct {
	Repo     EmployeeStore
	Branches BranchResolver
}

func NewEmployeeService(repo EmployeeStore, branches BranchResolver) *EmployeeService {
	return &EmployeeService{Repo: repo, Branches: branches}
}

// CreateEmployee creates an employee under the creator's company. The
// target branch must belong to that company.
func (s *EmployeeService) CreateEmployee(ctx context.Context, req *models.CreateEmployeeRequest, companyID int, createdBy string, createdByID int) (*models.Employee, error) {
	if req.EmployeeName == "" || req.Username == "" || req.Password == "" || req.BranchID == 0 {
		return nil, ErrInvalidInput
	}
	switch req.Role {
	case models.RoleManager, models.RoleAsstManager, models.RoleEmployee, "":
	default:
		return nil, ErrInvalidInput
	}

	branch, err := s.Branches.Get(ctx, req.BranchID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if branch.CompanyID != companyID {
		return nil, ErrNotFound
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		EmployeeName: req.EmployeeName,
		Username:     req.Username,
		PasswordHash: passwordHash,
		ProfilePic:   req.ProfilePic,
		Role:         req.Role,
		CompanyID:    companyID,
		BranchID:     req.BranchID,
		CreatedBy:    createdBy,
		CreatedByID:  createdByID,
	}
	if err := s.Repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	employee.BranchName = branch.BranchName
	return employee, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id int) (*models.Employee, error) {
	employee, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context, f models.EmployeeFilter) ([]*models.Employee, error) {
	return s.Repo.List(ctx, f)
}

func (s *EmployeeService) ToggleStatus(ctx context.Context, id int, isActive bool) error {
	return s.Repo.ToggleActiveStatus(ctx, id, isActive)
}

func (s *EmployeeService) UpdateRole(ctx context.Context, id int, role string) error {
	switch role {
	case models.RoleManager, models.RoleAsstManager, models.RoleEmployee:
	default:
		return ErrInvalidInput
	}
	return s.Repo.UpdateRole(ctx, id, role)
}

func (s *EmployeeService) UpdateProfile(ctx context.Context, id int, req *models.UpdateEmployeeProfileRequest) error {
	if req.EmployeeName == "" {
		return ErrInvalidInput
	}
	return s.Repo.UpdateProfile(ctx, id, req.EmployeeName, req.ProfilePic)
}

// ChangePassword verifies the current password before storing the new hash
func (s *EmployeeService) ChangePassword(ctx context.Context, id int, req *models.ChangePasswordRequest) error {
	employee, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if !auth.VerifyPassword(employee.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, id, passwordHash)
}
