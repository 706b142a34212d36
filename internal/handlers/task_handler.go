package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"orgflow-backend/internal/metrics"
	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/services"
	"orgflow-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	Service   *services.TaskService
	Branches  *services.BranchService
	Employees *services.EmployeeService
}

func NewTaskHandler(s *services.TaskService, branches *services.BranchService, employees *services.EmployeeService) *TaskHandler {
	return &TaskHandler{Service: s, Branches: branches, Employees: employees}
}

// CreateTask assigns a task. Companies assign to their own branches,
// managers and assistant managers to employees of their own branch.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch principal.Role {
	case models.RoleCompany:
		if req.AssignedTo != models.AssignedToBranch {
			utils.Error(w, http.StatusForbidden, "Companies assign tasks to branches")
			return
		}
		branch, err := h.Branches.GetBranch(context.Background(), req.AssignedID)
		if err != nil || branch.CompanyID != principal.CompanyID {
			utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
			return
		}
	default: // manager, asst_manager
		if req.AssignedTo != models.AssignedToEmployee {
			utils.Error(w, http.StatusForbidden, "Managers assign tasks to employees")
			return
		}
		employee, err := h.Employees.GetEmployee(context.Background(), req.AssignedID)
		if err != nil || employee.BranchID != principal.BranchID {
			utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
			return
		}
	}

	task, err := h.Service.CreateTask(context.Background(), &req, principal.Role, principal.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.TasksCreatedTotal.WithLabelValues(task.AssignedTo).Inc()
	utils.JSON(w, http.StatusCreated, task)
}

// ListTasks scopes the listing to the caller: companies see tasks they
// assigned, managers their branch's tasks, employees their own fan-out
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var filter models.TaskFilter
	switch principal.Role {
	case models.RoleCompany:
		filter.CompanyID = principal.ID
	case models.RoleManager, models.RoleAsstManager:
		filter.BranchID = principal.BranchID
	default:
		filter.EmployeeID = principal.ID
	}

	if v := r.URL.Query().Get("completed"); v != "" {
		completed := v == "true"
		filter.IsCompleted = &completed
	}

	tasks, err := h.Service.ListTasks(context.Background(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, tasks)
}

// GetTask returns a task with its per-employee completion breakdown.
// Tasks outside the caller's scope read as not found.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	task, err := h.Service.GetTaskWithDetails(context.Background(), id, principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, task)
}

// CompleteTask records the calling employee's completion. The task must
// target the caller or the caller's branch.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.CompleteTask(context.Background(), id, principal.ID, principal.BranchID); err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.TaskCompletionsTotal.Inc()
	utils.JSON(w, http.StatusOK, map[string]bool{"completed": true})
}

// ManagerCompleteTask closes a branch task on behalf of the whole
// branch, marking every roster member's row complete
func (h *TaskHandler) ManagerCompleteTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	task, err := h.Service.GetTask(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if task.AssignedTo != models.AssignedToBranch || task.AssignedID != principal.BranchID {
		utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}

	if err := h.Service.ManagerCompleteTask(context.Background(), id, principal.BranchID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"completed": true})
}

// CompletionStatus reports whether the calling employee has completed
// a task. Unknown pairs read as not completed.
func (h *TaskHandler) CompletionStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	completed, err := h.Service.GetCompletionStatus(context.Background(), id, principal.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"completed": completed})
}
