package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository struct {
	DB *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

// CreateWithMainBranch inserts the company and its main branch in one
// transaction so no company is ever observable without a main branch.
func (r *CompanyRepository) CreateWithMainBranch(ctx context.Context, c *models.Company) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO companies(company_name, username, password_hash, profile_pic, created_by)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, is_active, created_at, updated_at`,
		c.CompanyName, c.Username, c.PasswordHash, c.ProfilePic, c.CreatedBy,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO branches(branch_name, company_id, is_main_branch)
         VALUES('Main Branch', $1, TRUE)`,
		c.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CompanyRepository) Get(ctx context.Context, id int) (*models.Company, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_name, username, password_hash, profile_pic, is_active, created_by, created_at, updated_at
         FROM companies WHERE id=$1`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) GetByUsername(ctx context.Context, username string) (*models.Company, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_name, username, password_hash, profile_pic, is_active, created_by, created_at, updated_at
         FROM companies WHERE username=$1`, username)
	return scanCompany(row)
}

func (r *CompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, company_name, username, password_hash, profile_pic, is_active, created_by, created_at, updated_at
         FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateProfile updates the company display name and avatar
func (r *CompanyRepository) UpdateProfile(ctx context.Context, id int, companyName, profilePic string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET company_name=$1, profile_pic=$2, updated_at=NOW() WHERE id=$3`,
		companyName, profilePic, id)
	return err
}

// UpdatePassword replaces the stored password hash
func (r *CompanyRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET password_hash=$1, updated_at=NOW() WHERE id=$2`,
		passwordHash, id)
	return err
}

// SetActiveStatusCascade flips the company flag and cascades it to every
// branch and employee of the company in a single transaction.
func (r *CompanyRepository) SetActiveStatusCascade(ctx context.Context, id int, isActive bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE companies SET is_active=$1, updated_at=NOW() WHERE id=$2`,
		isActive, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE branches SET is_active=$1, updated_at=NOW() WHERE company_id=$2`,
		isActive, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE employees SET is_active=$1, updated_at=NOW() WHERE company_id=$2`,
		isActive, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.CompanyName, &c.Username, &c.PasswordHash,
		&c.ProfilePic, &c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
