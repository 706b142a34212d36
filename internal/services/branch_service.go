package services

import (
	"context"

	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

// BranchStore is implemented by repositories.BranchRepository
type BranchStore interface {
	Create(ctx context.Context, b *models.Branch) error
	Get(ctx context.Context, id int) (*models.Branch, error)
	ListByCompany(ctx context.Context, companyID int) ([]*models.Branch, error)
	CountEmployeesByRole(ctx context.Context, branchID int) (*models.EmployeeCounts, error)
	SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error
}

type BranchService struct {
	Repo BranchStore
}

func NewBranchService(repo BranchStore) *BranchService {
	return &BranchService{Repo: repo}
}

// CreateBranch creates a regular branch for a company. Main branches are
// only ever created alongside the company itself.
func (s *BranchService) CreateBranch(ctx context.Context, companyID int, req *models.CreateBranchRequest) (*models.Branch, error) {
	if req.BranchName == "" {
		return nil, ErrInvalidInput
	}

	branch := &models.Branch{
		BranchName: req.BranchName,
		CompanyID:  companyID,
	}
	if err := s.Repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (s *BranchService) GetBranch(ctx context.Context, id int) (*models.Branch, error) {
	branch, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return branch, nil
}

func (s *BranchService) ListBranches(ctx context.Context, companyID int) ([]*models.Branch, error) {
	return s.Repo.ListByCompany(ctx, companyID)
}

// GetBranchWithCounts returns the branch with its per-role employee totals
func (s *BranchService) GetBranchWithCounts(ctx context.Context, id int) (*models.BranchWithCounts, error) {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.Repo.CountEmployeesByRole(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.BranchWithCounts{
		Branch:         *branch,
		EmployeeCounts: *counts,
	}, nil
}

// ToggleStatus flips the branch's active flag and cascades it to the
// branch's employees
func (s *BranchService) ToggleStatus(ctx context.Context, id int, isActive bool) error {
	return s.Repo.SetActiveStatusCascade(ctx, id, isActive)
}
