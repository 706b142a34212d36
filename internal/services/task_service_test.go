package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// fakeRoster is an in-memory EmployeeRoster
type fakeRoster struct {
	byBranch map[int][]int
}

func (f *fakeRoster) ListActiveIDsByBranch(ctx context.Context, branchID int) ([]int, error) {
	return f.byBranch[branchID], nil
}

// fakeTaskStore mimics the repository's semantics in memory, including
// the conditional branch-task aggregate update.
type fakeTaskStore struct {
	roster      *fakeRoster
	nextID      int
	tasks       map[int]*models.Task
	completions map[int]map[int]*models.TaskCompletion
}

func newFakeTaskStore(roster *fakeRoster) *fakeTaskStore {
	return &fakeTaskStore{
		roster:      roster,
		tasks:       make(map[int]*models.Task),
		completions: make(map[int]map[int]*models.TaskCompletion),
	}
}

func (f *fakeTaskStore) CreateWithCompletions(ctx context.Context, t *models.Task, employeeIDs []int) error {
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	f.tasks[t.ID] = &copied

	rows := make(map[int]*models.TaskCompletion, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		rows[employeeID] = &models.TaskCompletion{
			TaskID:     t.ID,
			EmployeeID: employeeID,
		}
	}
	f.completions[t.ID] = rows
	return nil
}

func (f *fakeTaskStore) Get(ctx context.Context, id int) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskStore) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range f.tasks {
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTaskStore) UpsertCompletion(ctx context.Context, taskID, employeeID int, completedAt time.Time) error {
	rows, ok := f.completions[taskID]
	if !ok {
		rows = make(map[int]*models.TaskCompletion)
		f.completions[taskID] = rows
	}
	tc, ok := rows[employeeID]
	if !ok {
		tc = &models.TaskCompletion{TaskID: taskID, EmployeeID: employeeID}
		rows[employeeID] = tc
	}
	tc.IsCompleted = true
	tc.CompletedAt = &completedAt
	return nil
}

func (f *fakeTaskStore) MarkCompleted(ctx context.Context, taskID int) error {
	t, ok := f.tasks[taskID]
	if !ok {
		return pgx.ErrNoRows
	}
	t.IsCompleted = true
	return nil
}

func (f *fakeTaskStore) MarkBranchCompletedIfAllDone(ctx context.Context, taskID int) (bool, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.AssignedTo != models.AssignedToBranch {
		return false, nil
	}

	completed := 0
	for _, tc := range f.completions[taskID] {
		if tc.IsCompleted {
			completed++
		}
	}
	active := len(f.roster.byBranch[t.AssignedID])
	if completed >= active {
		t.IsCompleted = true
		return true, nil
	}
	return false, nil
}

func (f *fakeTaskStore) GetCompletion(ctx context.Context, taskID, employeeID int) (*models.TaskCompletion, error) {
	tc, ok := f.completions[taskID][employeeID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *tc
	return &copied, nil
}

func (f *fakeTaskStore) ListCompletionDetails(ctx context.Context, taskID int) ([]*models.CompletionDetail, error) {
	var out []*models.CompletionDetail
	for _, tc := range f.completions[taskID] {
		out = append(out, &models.CompletionDetail{TaskCompletion: *tc})
	}
	return out, nil
}

func newTaskFixture(byBranch map[int][]int) (*TaskService, *fakeTaskStore) {
	roster := &fakeRoster{byBranch: byBranch}
	store := newFakeTaskStore(roster)
	return NewTaskService(store, roster), store
}

func TestCreateTaskBranchFanOut(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {11, 12, 13}})

	task, err := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Weekly stock check",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if got := len(store.completions[task.ID]); got != 3 {
		t.Errorf("completion rows = %d, want 3", got)
	}
	if task.IsCompleted {
		t.Error("new branch task should start incomplete")
	}
	for _, id := range []int{11, 12, 13} {
		if _, ok := store.completions[task.ID][id]; !ok {
			t.Errorf("missing completion row for employee %d", id)
		}
	}
}

func TestCreateTaskEmployeeSingleRow(t *testing.T) {
	svc, store := newTaskFixture(nil)

	task, err := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "File the invoices",
		AssignedTo: models.AssignedToEmployee,
		AssignedID: 42,
	}, models.RoleManager, 7)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if got := len(store.completions[task.ID]); got != 1 {
		t.Errorf("completion rows = %d, want 1", got)
	}
	if _, ok := store.completions[task.ID][42]; !ok {
		t.Error("missing completion row for the assigned employee")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _ := newTaskFixture(nil)

	tests := []struct {
		name string
		req  models.CreateTaskRequest
	}{
		{"empty title", models.CreateTaskRequest{AssignedTo: models.AssignedToEmployee, AssignedID: 1}},
		{"zero target", models.CreateTaskRequest{Title: "x", AssignedTo: models.AssignedToBranch}},
		{"unknown target kind", models.CreateTaskRequest{Title: "x", AssignedTo: "department", AssignedID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), &tt.req, models.RoleCompany, 1)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCompleteEmployeeTask(t *testing.T) {
	svc, store := newTaskFixture(nil)

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Call the supplier",
		AssignedTo: models.AssignedToEmployee,
		AssignedID: 42,
	}, models.RoleManager, 7)

	if err := svc.CompleteTask(context.Background(), task.ID, 42, 3); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	if !store.tasks[task.ID].IsCompleted {
		t.Error("employee task should complete on its one completion")
	}
}

func TestBranchTaskCompletesWhenAllDone(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {11, 12}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Month-end closing",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	if err := svc.CompleteTask(context.Background(), task.ID, 11, 5); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if store.tasks[task.ID].IsCompleted {
		t.Fatal("task completed with one of two employees done")
	}

	if err := svc.CompleteTask(context.Background(), task.ID, 12, 5); err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if !store.tasks[task.ID].IsCompleted {
		t.Error("task should complete once every employee is done")
	}
}

func TestCompleteTaskIdempotent(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {11, 12}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Safety drill",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	for i := 0; i < 3; i++ {
		if err := svc.CompleteTask(context.Background(), task.ID, 11, 5); err != nil {
			t.Fatalf("repeat completion %d: %v", i, err)
		}
	}

	if got := len(store.completions[task.ID]); got != 2 {
		t.Errorf("completion rows = %d, want 2", got)
	}
	if store.tasks[task.ID].IsCompleted {
		t.Error("repeated completions by one employee must not close the task")
	}
}

// A branch task's quorum is the branch's currently active roster, so an
// employee deactivated after the fan-out no longer blocks completion.
func TestBranchTaskQuorumTracksActiveRoster(t *testing.T) {
	roster := &fakeRoster{byBranch: map[int][]int{5: {11, 12}}}
	store := newFakeTaskStore(roster)
	svc := NewTaskService(store, roster)

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Inventory recount",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	roster.byBranch[5] = []int{11} // employee 12 deactivated

	if err := svc.CompleteTask(context.Background(), task.ID, 11, 5); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !store.tasks[task.ID].IsCompleted {
		t.Error("task should complete once all currently active employees are done")
	}
}

func TestManagerCompleteTask(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {11, 12, 13}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Fire inspection prep",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	if err := svc.ManagerCompleteTask(context.Background(), task.ID, 5); err != nil {
		t.Fatalf("ManagerCompleteTask: %v", err)
	}

	if !store.tasks[task.ID].IsCompleted {
		t.Error("manager override should close the task")
	}
	for _, id := range []int{11, 12, 13} {
		tc := store.completions[task.ID][id]
		if tc == nil || !tc.IsCompleted {
			t.Errorf("employee %d completion not recorded by override", id)
		}
	}
}

// A branch with no active employees yields zero completion rows; the
// task stays open until a manager closes it.
func TestBranchTaskEmptyRoster(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {}})

	task, err := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Reopen checklist",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if got := len(store.completions[task.ID]); got != 0 {
		t.Errorf("completion rows = %d, want 0", got)
	}
	if store.tasks[task.ID].IsCompleted {
		t.Error("empty-roster task should start incomplete")
	}

	if err := svc.ManagerCompleteTask(context.Background(), task.ID, 5); err != nil {
		t.Fatalf("ManagerCompleteTask: %v", err)
	}
	if !store.tasks[task.ID].IsCompleted {
		t.Error("manager override should close an empty-roster task")
	}
}

func TestGetCompletionStatusMissingRow(t *testing.T) {
	svc, _ := newTaskFixture(nil)

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "One-off errand",
		AssignedTo: models.AssignedToEmployee,
		AssignedID: 42,
	}, models.RoleManager, 7)

	// Employee 99 was never part of the fan-out
	completed, err := svc.GetCompletionStatus(context.Background(), task.ID, 99)
	if err != nil {
		t.Fatalf("GetCompletionStatus: %v", err)
	}
	if completed {
		t.Error("missing completion row should read as not completed")
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	svc, _ := newTaskFixture(nil)

	err := svc.CompleteTask(context.Background(), 999, 42, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// A completion attempt on a branch task by an employee of another branch
// is rejected and leaves no completion row, so it can never tip the
// quorum while a real member is still incomplete.
func TestCompleteTaskForeignBranchRejected(t *testing.T) {
	svc, store := newTaskFixture(map[int][]int{5: {11, 12}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Cold room defrost",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	if err := svc.CompleteTask(context.Background(), task.ID, 11, 5); err != nil {
		t.Fatalf("member completion: %v", err)
	}

	// Employee 99 belongs to branch 8, not the task's branch
	err := svc.CompleteTask(context.Background(), task.ID, 99, 8)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if got := len(store.completions[task.ID]); got != 2 {
		t.Errorf("completion rows = %d, want 2", got)
	}
	if store.tasks[task.ID].IsCompleted {
		t.Error("foreign completion must not close the task while a member is incomplete")
	}
}

func TestCompleteTaskWrongEmployeeRejected(t *testing.T) {
	svc, store := newTaskFixture(nil)

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Sign the delivery log",
		AssignedTo: models.AssignedToEmployee,
		AssignedID: 42,
	}, models.RoleManager, 7)

	err := svc.CompleteTask(context.Background(), task.ID, 41, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if store.tasks[task.ID].IsCompleted {
		t.Error("task completed by an employee it does not target")
	}
	if tc := store.completions[task.ID][41]; tc != nil {
		t.Error("rejected attempt must not leave a completion row")
	}
}

func TestGetTaskWithDetailsCounts(t *testing.T) {
	svc, _ := newTaskFixture(map[int][]int{5: {11, 12, 13}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Quarterly audit",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	svc.CompleteTask(context.Background(), task.ID, 11, 5)
	svc.CompleteTask(context.Background(), task.ID, 12, 5)

	assigner := &models.Principal{ID: 1, Role: models.RoleCompany}
	details, err := svc.GetTaskWithDetails(context.Background(), task.ID, assigner)
	if err != nil {
		t.Fatalf("GetTaskWithDetails: %v", err)
	}
	if details.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", details.TotalCount)
	}
	if details.CompletedCount != 2 {
		t.Errorf("CompletedCount = %d, want 2", details.CompletedCount)
	}
}

// Task detail reads are scoped: the assigner, the target branch's
// members and the target employee can see a task, nobody else.
func TestGetTaskWithDetailsScoped(t *testing.T) {
	svc, _ := newTaskFixture(map[int][]int{5: {11, 12}})

	task, _ := svc.CreateTask(context.Background(), &models.CreateTaskRequest{
		Title:      "Pallet recount",
		AssignedTo: models.AssignedToBranch,
		AssignedID: 5,
	}, models.RoleCompany, 1)

	tests := []struct {
		name    string
		viewer  *models.Principal
		visible bool
	}{
		{"assigning company", &models.Principal{ID: 1, Role: models.RoleCompany}, true},
		{"branch member", &models.Principal{ID: 11, Role: models.RoleEmployee, BranchID: 5}, true},
		{"branch manager", &models.Principal{ID: 30, Role: models.RoleManager, BranchID: 5}, true},
		{"admin", &models.Principal{ID: 1, Role: models.RoleAdmin}, true},
		{"other company", &models.Principal{ID: 2, Role: models.RoleCompany}, false},
		{"employee of another branch", &models.Principal{ID: 99, Role: models.RoleEmployee, BranchID: 8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetTaskWithDetails(context.Background(), task.ID, tt.viewer)
			if tt.visible && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if !tt.visible && !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}
