package repositories

import (
	"context"
	"errors"
	"time"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	DB *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{DB: db}
}

// CreateWithCompletions inserts the task and one completion row per target
// employee in a single transaction, so no task is ever observable with a
// partial fan-out.
func (r *TaskRepository) CreateWithCompletions(ctx context.Context, t *models.Task, employeeIDs []int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO tasks(title, description, assigned_to, assigned_id, assigned_by, assigned_by_id)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, is_completed, created_at, updated_at`,
		t.Title, t.Description, t.AssignedTo, t.AssignedID, t.AssignedBy, t.AssignedByID,
	).Scan(&t.ID, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}

	for _, employeeID := range employeeIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO task_completions(task_id, employee_id) VALUES($1, $2)`,
			t.ID, employeeID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *TaskRepository) Get(ctx context.Context, id int) (*models.Task, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, title, description, assigned_to, assigned_id, assigned_by, assigned_by_id, is_completed, created_at, updated_at
         FROM tasks WHERE id=$1`, id)
	return scanTask(row)
}

// List returns tasks matched by the filter, newest first. An EmployeeID
// filter matches through the completion table: an employee's tasks are
// exactly those it has a completion row for.
func (r *TaskRepository) List(ctx context.Context, f models.TaskFilter) ([]*models.Task, error) {
	query := `SELECT t.id, t.title, t.description, t.assigned_to, t.assigned_id,
                     t.assigned_by, t.assigned_by_id, t.is_completed, t.created_at, t.updated_at
              FROM tasks t`
	var args []any

	if f.EmployeeID != 0 {
		args = append(args, f.EmployeeID)
		query += ` JOIN task_completions tc ON tc.task_id = t.id AND tc.employee_id=$` + itoa(len(args))
	}
	query += ` WHERE 1=1`

	if f.CompanyID != 0 {
		args = append(args, f.CompanyID)
		query += ` AND t.assigned_by='company' AND t.assigned_by_id=$` + itoa(len(args))
	}
	if f.BranchID != 0 {
		args = append(args, f.BranchID)
		query += ` AND t.assigned_to='branch' AND t.assigned_id=$` + itoa(len(args))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		query += ` AND t.assigned_to=$` + itoa(len(args))
		if f.AssignedID != 0 {
			args = append(args, f.AssignedID)
			query += ` AND t.assigned_id=$` + itoa(len(args))
		}
	}
	if f.AssignedBy != "" {
		args = append(args, f.AssignedBy)
		query += ` AND t.assigned_by=$` + itoa(len(args))
		if f.AssignedByID != 0 {
			args = append(args, f.AssignedByID)
			query += ` AND t.assigned_by_id=$` + itoa(len(args))
		}
	}
	if f.IsCompleted != nil {
		args = append(args, *f.IsCompleted)
		query += ` AND t.is_completed=$` + itoa(len(args))
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpsertCompletion marks the (task, employee) completion row done,
// creating it if it did not exist. The uniqueness constraint makes
// concurrent upserts for the same pair safe.
func (r *TaskRepository) UpsertCompletion(ctx context.Context, taskID, employeeID int, completedAt time.Time) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO task_completions(task_id, employee_id, is_completed, completed_at)
         VALUES($1, $2, TRUE, $3)
         ON CONFLICT (task_id, employee_id)
         DO UPDATE SET is_completed=TRUE, completed_at=$3, updated_at=NOW()`,
		taskID, employeeID, completedAt)
	return err
}

// MarkCompleted force-sets the task's completion flag
func (r *TaskRepository) MarkCompleted(ctx context.Context, taskID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE tasks SET is_completed=TRUE, updated_at=NOW() WHERE id=$1`, taskID)
	return err
}

// MarkBranchCompletedIfAllDone flips a branch task's flag when the count
// of completed rows has reached the count of currently active employees
// of the target branch. The aggregate is re-derived inside the UPDATE, so
// two racing completions cannot both observe a stale snapshot and skip
// it. Only rows belonging to the branch's own employees count toward the
// quorum.
func (r *TaskRepository) MarkBranchCompletedIfAllDone(ctx context.Context, taskID int) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE tasks t SET is_completed=TRUE, updated_at=NOW()
         WHERE t.id=$1 AND t.assigned_to='branch'
           AND (SELECT COUNT(*) FROM task_completions tc
                JOIN employees e ON e.id = tc.employee_id AND e.branch_id = t.assigned_id
                WHERE tc.task_id=t.id AND tc.is_completed)
               >= (SELECT COUNT(*) FROM employees e
                   WHERE e.branch_id=t.assigned_id AND e.is_active)`,
		taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetCompletion returns the completion row for (task, employee), or
// pgx.ErrNoRows if the pair was never part of the fan-out
func (r *TaskRepository) GetCompletion(ctx context.Context, taskID, employeeID int) (*models.TaskCompletion, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, task_id, employee_id, is_completed, completed_at, created_at, updated_at
         FROM task_completions WHERE task_id=$1 AND employee_id=$2`,
		taskID, employeeID)

	var tc models.TaskCompletion
	err := row.Scan(&tc.ID, &tc.TaskID, &tc.EmployeeID, &tc.IsCompleted,
		&tc.CompletedAt, &tc.CreatedAt, &tc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// ListCompletionDetails returns the task's completion rows joined with
// employee names for detail views
func (r *TaskRepository) ListCompletionDetails(ctx context.Context, taskID int) ([]*models.CompletionDetail, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT tc.id, tc.task_id, tc.employee_id, tc.is_completed, tc.completed_at,
                tc.created_at, tc.updated_at, e.employee_name, e.role
         FROM task_completions tc
         JOIN employees e ON tc.employee_id = e.id
         WHERE tc.task_id=$1
         ORDER BY e.employee_name`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.CompletionDetail
	for rows.Next() {
		var d models.CompletionDetail
		err := rows.Scan(&d.ID, &d.TaskID, &d.EmployeeID, &d.IsCompleted, &d.CompletedAt,
			&d.CreatedAt, &d.UpdatedAt, &d.EmployeeName, &d.EmployeeRole)
		if err != nil {
			return nil, err
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}

// IsNoRows reports whether err is the driver's empty-result sentinel
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedID,
		&t.AssignedBy, &t.AssignedByID, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
