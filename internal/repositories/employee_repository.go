package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	if e.Role == "" {
		e.Role = models.RoleEmployee
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO employees(employee_name, username, password_hash, profile_pic, role, company_id, branch_id, created_by, created_by_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, is_active, created_at, updated_at`,
		e.EmployeeName, e.Username, e.PasswordHash, e.ProfilePic, e.Role,
		e.CompanyID, e.BranchID, e.CreatedBy, e.CreatedByID,
	).Scan(&e.ID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EmployeeRepository) Get(ctx context.Context, id int) (*models.Employee, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT e.id, e.employee_name, e.username, e.password_hash, e.profile_pic, e.role,
                e.company_id, e.branch_id, b.branch_name, e.is_active,
                e.created_by, e.created_by_id, e.created_at, e.updated_at
         FROM employees e
         JOIN branches b ON e.branch_id = b.id
         WHERE e.id=$1`, id)

	var e models.Employee
	err := row.Scan(&e.ID, &e.EmployeeName, &e.Username, &e.PasswordHash, &e.ProfilePic,
		&e.Role, &e.CompanyID, &e.BranchID, &e.BranchName, &e.IsActive,
		&e.CreatedBy, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByUsernameWithChain returns the employee together with the active
// flags of its owning branch and company, resolved in one query. Every
// flag must be checked by the caller; a single inactive link denies login.
func (r *EmployeeRepository) GetByUsernameWithChain(ctx context.Context, username string) (*models.Employee, bool, bool, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT e.id, e.employee_name, e.username, e.password_hash, e.profile_pic, e.role,
                e.company_id, e.branch_id, e.is_active,
                e.created_by, e.created_by_id, e.created_at, e.updated_at,
                b.is_active, c.is_active
         FROM employees e
         JOIN branches b ON e.branch_id = b.id
         JOIN companies c ON e.company_id = c.id
         WHERE e.username=$1`, username)

	var e models.Employee
	var branchActive, companyActive bool
	err := row.Scan(&e.ID, &e.EmployeeName, &e.Username, &e.PasswordHash, &e.ProfilePic,
		&e.Role, &e.CompanyID, &e.BranchID, &e.IsActive,
		&e.CreatedBy, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt,
		&branchActive, &companyActive)
	if err != nil {
		return nil, false, false, err
	}
	return &e, branchActive, companyActive, nil
}

// List returns employees matched by the filter, branch name joined,
// managers first within each creation batch
func (r *EmployeeRepository) List(ctx context.Context, f models.EmployeeFilter) ([]*models.Employee, error) {
	query := `SELECT e.id, e.employee_name, e.username, e.profile_pic, e.role,
                     e.company_id, e.branch_id, b.branch_name, e.is_active,
                     e.created_by, e.created_by_id, e.created_at, e.updated_at
              FROM employees e
              JOIN branches b ON e.branch_id = b.id
              WHERE 1=1`
	var args []any
	if f.CompanyID != 0 {
		args = append(args, f.CompanyID)
		query += ` AND e.company_id=$` + itoa(len(args))
	}
	if f.BranchID != 0 {
		args = append(args, f.BranchID)
		query += ` AND e.branch_id=$` + itoa(len(args))
	}
	if f.Role != "" {
		args = append(args, f.Role)
		query += ` AND e.role=$` + itoa(len(args))
	}
	query += ` ORDER BY e.role, e.created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		var e models.Employee
		err := rows.Scan(&e.ID, &e.EmployeeName, &e.Username, &e.ProfilePic,
			&e.Role, &e.CompanyID, &e.BranchID, &e.BranchName, &e.IsActive,
			&e.CreatedBy, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

// ListActiveIDsByBranch returns the ids of the branch's active employees.
// This is the single membership definition used by the task engine for
// both fan-out and aggregate recomputation.
func (r *EmployeeRepository) ListActiveIDsByBranch(ctx context.Context, branchID int) ([]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id FROM employees WHERE branch_id=$1 AND is_active ORDER BY id`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ToggleActiveStatus flips the is_active flag of a single employee
func (r *EmployeeRepository) ToggleActiveStatus(ctx context.Context, id int, isActive bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE employees SET is_active=$1, updated_at=NOW() WHERE id=$2`,
		isActive, id)
	return err
}

// UpdateRole changes the stored role of an employee
func (r *EmployeeRepository) UpdateRole(ctx context.Context, id int, role string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE employees SET role=$1, updated_at=NOW() WHERE id=$2`,
		role, id)
	return err
}

// UpdateProfile updates the employee display name and avatar
func (r *EmployeeRepository) UpdateProfile(ctx context.Context, id int, employeeName, profilePic string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE employees SET employee_name=$1, profile_pic=$2, updated_at=NOW() WHERE id=$3`,
		employeeName, profilePic, id)
	return err
}

// UpdatePassword replaces the stored password hash
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE employees SET password_hash=$1, updated_at=NOW() WHERE id=$2`,
		passwordHash, id)
	return err
}
