package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	DB *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Upsert writes the employee's report for the given date. Resubmitting the
// same date replaces the content of the existing row, it never duplicates.
func (r *ReportRepository) Upsert(ctx context.Context, rep *models.Report) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO reports(employee_id, report_date, content)
         VALUES($1, $2, $3)
         ON CONFLICT (employee_id, report_date)
         DO UPDATE SET content=$3, updated_at=NOW()
         RETURNING id, created_at, updated_at`,
		rep.EmployeeID, rep.ReportDate, rep.Content,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
}

func (r *ReportRepository) Get(ctx context.Context, id int) (*models.Report, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, employee_id, report_date, content, created_at, updated_at
         FROM reports WHERE id=$1`, id)

	var rep models.Report
	err := row.Scan(&rep.ID, &rep.EmployeeID, &rep.ReportDate, &rep.Content,
		&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// List returns reports matched by the filter joined with employee and
// branch names, newest report date first
func (r *ReportRepository) List(ctx context.Context, f models.ReportFilter) ([]*models.ReportWithDetails, error) {
	query := `SELECT rp.id, rp.employee_id, rp.report_date, rp.content, rp.created_at, rp.updated_at,
                     e.employee_name, e.role, b.branch_name
              FROM reports rp
              JOIN employees e ON rp.employee_id = e.id
              JOIN branches b ON e.branch_id = b.id
              WHERE 1=1`
	var args []any
	if f.EmployeeID != 0 {
		args = append(args, f.EmployeeID)
		query += ` AND rp.employee_id=$` + itoa(len(args))
	}
	if f.BranchID != 0 {
		args = append(args, f.BranchID)
		query += ` AND e.branch_id=$` + itoa(len(args))
	}
	if f.CompanyID != 0 {
		args = append(args, f.CompanyID)
		query += ` AND e.company_id=$` + itoa(len(args))
	}
	if f.StartDate != "" {
		args = append(args, f.StartDate)
		query += ` AND rp.report_date>=$` + itoa(len(args))
	}
	if f.EndDate != "" {
		args = append(args, f.EndDate)
		query += ` AND rp.report_date<=$` + itoa(len(args))
	}
	query += ` ORDER BY rp.report_date DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.ReportWithDetails
	for rows.Next() {
		var rep models.ReportWithDetails
		err := rows.Scan(&rep.ID, &rep.EmployeeID, &rep.ReportDate, &rep.Content,
			&rep.CreatedAt, &rep.UpdatedAt, &rep.EmployeeName, &rep.EmployeeRole, &rep.BranchName)
		if err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}
