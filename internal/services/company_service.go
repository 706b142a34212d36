package services

import (
	"context"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

// CompanyStore is implemented by repositories.CompanyRepository
type CompanyStore interface {
	CreateWithMainBranch(ctx context.Context, c *models.Company) error
	Get(ctx context.Context, id int) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	UpdateProfile(ctx context.Context, id int, companyName, profilePic string) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error
}

// CompanyService manages companies. Creation also provisions the main
// branch; deactivation cascades through branches and employees.
type CompanyService struct {
	Repo CompanyStore
}

func NewCompanyService(repo CompanyStore) *CompanyService {
	return &CompanyService{Repo: repo}
}

// CreateCompany creates the company and its main branch atomically
func (s *CompanyService) CreateCompany(ctx context.Context, req *models.CreateCompanyRequest, createdBy int) (*models.Company, error) {
	if req.CompanyName == "" || req.Username == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		CompanyName:  req.CompanyName,
		Username:     req.Username,
		PasswordHash: passwordHash,
		ProfilePic:   req.ProfilePic,
		CreatedBy:    createdBy,
	}
	if err := s.Repo.CreateWithMainBranch(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int) (*models.Company, error) {
	company, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.Repo.List(ctx)
}

func (s *CompanyService) UpdateProfile(ctx context.Context, id int, req *models.UpdateCompanyProfileRequest) error {
	if req.CompanyName == "" {
		return ErrInvalidInput
	}
	return s.Repo.UpdateProfile(ctx, id, req.CompanyName, req.ProfilePic)
}

// ChangePassword verifies the current password before storing the new hash
func (s *CompanyService) ChangePassword(ctx context.Context, id int, req *models.ChangePasswordRequest) error {
	company, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if !auth.VerifyPassword(company.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, id, passwordHash)
}

// ToggleStatus flips the company's active flag and cascades it to every
// branch and employee of the company
func (s *CompanyService) ToggleStatus(ctx context.Context, id int, isActive bool) error {
	return s.Repo.SetActiveStatusCascade(ctx, id, isActive)
}
