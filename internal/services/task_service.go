package services

import (
	"context"
	"fmt"
	"time"

	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

// TaskStore is the persistence surface the task engine needs. Implemented
// by repositories.TaskRepository.
type TaskStore interface {
	CreateWithCompletions(ctx context.Context, t *models.Task, employeeIDs []int) error
	Get(ctx context.Context, id int) (*models.Task, error)
	List(ctx context.Context, f models.TaskFilter) ([]*models.Task, error)
	UpsertCompletion(ctx context.Context, taskID, employeeID int, completedAt time.Time) error
	MarkCompleted(ctx context.Context, taskID int) error
	MarkBranchCompletedIfAllDone(ctx context.Context, taskID int) (bool, error)
	GetCompletion(ctx context.Context, taskID, employeeID int) (*models.TaskCompletion, error)
	ListCompletionDetails(ctx context.Context, taskID int) ([]*models.CompletionDetail, error)
}

// EmployeeRoster resolves branch membership. The engine uses the active
// roster on every path: fan-out, aggregate recomputation and the manager
// bulk override all share this one membership definition. Implemented by
// repositories.EmployeeRepository.
type EmployeeRoster interface {
	ListActiveIDsByBranch(ctx context.Context, branchID int) ([]int, error)
}

// TaskService creates tasks, fans them out into per-employee completion
// rows, and aggregates completions back into the task's overall flag.
type TaskService struct {
	Tasks     TaskStore
	Employees EmployeeRoster
}

func NewTaskService(tasks TaskStore, employees EmployeeRoster) *TaskService {
	return &TaskService{
		Tasks:     tasks,
		Employees: employees,
	}
}

// CreateTask inserts the task and its completion fan-out as one logical
// unit. A branch task targets the branch's currently active employees at
// this instant; employees joining later do not gain a completion row. A
// branch with no active employees yields a task with zero completion rows
// which stays incomplete until a manager closes it.
func (s *TaskService) CreateTask(ctx context.Context, req *models.CreateTaskRequest, assignedBy string, assignedByID int) (*models.Task, error) {
	if req.Title == "" || req.AssignedID == 0 {
		return nil, ErrInvalidInput
	}

	var employeeIDs []int
	switch req.AssignedTo {
	case models.AssignedToBranch:
		ids, err := s.Employees.ListActiveIDsByBranch(ctx, req.AssignedID)
		if err != nil {
			return nil, fmt.Errorf("resolve branch roster: %w", err)
		}
		employeeIDs = ids
	case models.AssignedToEmployee:
		employeeIDs = []int{req.AssignedID}
	default:
		return nil, ErrInvalidInput
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		AssignedID:   req.AssignedID,
		AssignedBy:   assignedBy,
		AssignedByID: assignedByID,
	}
	if err := s.Tasks.CreateWithCompletions(ctx, task, employeeIDs); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask records an employee's completion and recomputes the task's
// aggregate flag. The task must target the caller: the employee itself,
// or the employee's own branch. The completion row is upserted, so a
// retried call or a row lost to partial failure converges instead of
// erroring. Safe to call more than once for the same employee.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, employeeID, branchID int) error {
	task, err := s.Tasks.Get(ctx, taskID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	switch task.AssignedTo {
	case models.AssignedToEmployee:
		if task.AssignedID != employeeID {
			return ErrNotFound
		}
	default:
		if task.AssignedID != branchID {
			return ErrNotFound
		}
	}

	if err := s.Tasks.UpsertCompletion(ctx, taskID, employeeID, time.Now()); err != nil {
		return err
	}

	if task.AssignedTo == models.AssignedToEmployee {
		// Single-target tasks complete unconditionally on the one completion
		return s.Tasks.MarkCompleted(ctx, taskID)
	}

	_, err = s.Tasks.MarkBranchCompletedIfAllDone(ctx, taskID)
	return err
}

// ManagerCompleteTask closes a branch task on behalf of every active
// employee of the branch, then force-sets the task flag regardless of the
// aggregate. Supervisory override path.
func (s *TaskService) ManagerCompleteTask(ctx context.Context, taskID, branchID int) error {
	ids, err := s.Employees.ListActiveIDsByBranch(ctx, branchID)
	if err != nil {
		return fmt.Errorf("resolve branch roster: %w", err)
	}

	now := time.Now()
	for _, employeeID := range ids {
		if err := s.Tasks.UpsertCompletion(ctx, taskID, employeeID, now); err != nil {
			return err
		}
	}

	return s.Tasks.MarkCompleted(ctx, taskID)
}

// GetCompletionStatus reports whether the employee has completed the
// task. A missing row reads as not completed.
func (s *TaskService) GetCompletionStatus(ctx context.Context, taskID, employeeID int) (bool, error) {
	tc, err := s.Tasks.GetCompletion(ctx, taskID, employeeID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return tc.IsCompleted, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	task, err := s.Tasks.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// taskVisibleTo reports whether the principal may read the task: its
// assigner, the target branch's members, or the target employee. A task
// outside the viewer's scope reads the same as a missing one.
func taskVisibleTo(t *models.Task, p *models.Principal) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCompany:
		return t.AssignedBy == models.RoleCompany && t.AssignedByID == p.ID
	default:
		if t.AssignedBy == p.Role && t.AssignedByID == p.ID {
			return true
		}
		if t.AssignedTo == models.AssignedToBranch && t.AssignedID == p.BranchID {
			return true
		}
		return t.AssignedTo == models.AssignedToEmployee && t.AssignedID == p.ID
	}
}

// GetTaskWithDetails returns the task with its completion rows and counts.
// Tasks unrelated to the viewer are reported as not found.
func (s *TaskService) GetTaskWithDetails(ctx context.Context, id int, viewer *models.Principal) (*models.TaskWithDetails, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !taskVisibleTo(task, viewer) {
		return nil, ErrNotFound
	}

	completions, err := s.Tasks.ListCompletionDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, c := range completions {
		if c.IsCompleted {
			completed++
		}
	}

	return &models.TaskWithDetails{
		Task:           *task,
		Completions:    completions,
		CompletedCount: completed,
		TotalCount:     len(completions),
	}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, f models.TaskFilter) ([]*models.Task, error) {
	return s.Tasks.List(ctx, f)
}
