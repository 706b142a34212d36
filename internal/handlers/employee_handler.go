package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/services"
	"orgflow-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type EmployeeHandler struct {
	Service *services.EmployeeService
}

func NewEmployeeHandler(s *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Service: s}
}

// CreateEmployee registers an employee under the caller's company
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	employee, err := h.Service.CreateEmployee(context.Background(), &req, principal.CompanyID, principal.Role, principal.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, employee)
}

// ListEmployees scopes the listing to what the caller may see: a
// company sees its whole roster, a manager only their branch
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	filter := models.EmployeeFilter{Role: r.URL.Query().Get("role")}
	switch principal.Role {
	case models.RoleCompany:
		filter.CompanyID = principal.CompanyID
		if branchID, _ := strconv.Atoi(r.URL.Query().Get("branch_id")); branchID > 0 {
			filter.BranchID = branchID
		}
	default:
		filter.BranchID = principal.BranchID
	}

	employees, err := h.Service.ListEmployees(context.Background(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	employee, err := h.Service.GetEmployee(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if employee.CompanyID != principal.CompanyID {
		utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}

	utils.JSON(w, http.StatusOK, employee)
}

// ToggleStatus suspends or restores a single employee account
func (h *EmployeeHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.ToggleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.ownsEmployee(principal, id, w) {
		return
	}

	if err := h.Service.ToggleStatus(context.Background(), id, req.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

// UpdateRole promotes or demotes an employee within their branch
func (h *EmployeeHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateEmployeeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.ownsEmployee(principal, id, w) {
		return
	}

	if err := h.Service.UpdateRole(context.Background(), id, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"role": req.Role})
}

// ownsEmployee checks the target belongs to the caller's company.
// Writes the error response and returns false when it does not.
func (h *EmployeeHandler) ownsEmployee(principal *models.Principal, id int, w http.ResponseWriter) bool {
	employee, err := h.Service.GetEmployee(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return false
	}
	if employee.CompanyID != principal.CompanyID {
		utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
		return false
	}
	return true
}
