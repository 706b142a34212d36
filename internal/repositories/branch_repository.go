package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) Create(ctx context.Context, b *models.Branch) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO branches(branch_name, company_id, is_main_branch)
         VALUES($1, $2, $3)
         RETURNING id, is_active, created_at, updated_at`,
		b.BranchName, b.CompanyID, b.IsMainBranch,
	).Scan(&b.ID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BranchRepository) Get(ctx context.Context, id int) (*models.Branch, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, branch_name, company_id, is_main_branch, is_active, created_at, updated_at
         FROM branches WHERE id=$1`, id)

	var b models.Branch
	err := row.Scan(&b.ID, &b.BranchName, &b.CompanyID, &b.IsMainBranch,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByCompany returns the company's branches, main branch first
func (r *BranchRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.Branch, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, branch_name, company_id, is_main_branch, is_active, created_at, updated_at
         FROM branches WHERE company_id=$1
         ORDER BY is_main_branch DESC, created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		var b models.Branch
		err := rows.Scan(&b.ID, &b.BranchName, &b.CompanyID, &b.IsMainBranch,
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}

// CountEmployeesByRole returns per-role employee totals for a branch
func (r *BranchRepository) CountEmployeesByRole(ctx context.Context, branchID int) (*models.EmployeeCounts, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
                COUNT(*) FILTER (WHERE role='manager'),
                COUNT(*) FILTER (WHERE role='asst_manager'),
                COUNT(*) FILTER (WHERE role='employee')
         FROM employees WHERE branch_id=$1`, branchID)

	var c models.EmployeeCounts
	if err := row.Scan(&c.Total, &c.Managers, &c.AsstManagers, &c.GeneralEmployees); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetActiveStatusCascade flips the branch flag and cascades it to the
// branch's employees in a single transaction.
func (r *BranchRepository) SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE branches SET is_active=$1, updated_at=NOW() WHERE id=$2`,
		isActive, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE employees SET is_active=$1, updated_at=NOW() WHERE branch_id=$2`,
		isActive, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
