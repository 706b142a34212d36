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

type BranchHandler struct {
	Service *services.BranchService
}

func NewBranchHandler(s *services.BranchService) *BranchHandler {
	return &BranchHandler{Service: s}
}

// CreateBranch adds a branch under the calling company
func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	branch, err := h.Service.CreateBranch(context.Background(), principal.CompanyID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	branches, err := h.Service.ListBranches(context.Background(), principal.CompanyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, branches)
}

// GetBranch returns a branch with its per-role employee counts
func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	branch, err := h.Service.GetBranchWithCounts(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if principal.Role == models.RoleCompany && branch.CompanyID != principal.CompanyID {
		utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}

	utils.JSON(w, http.StatusOK, branch)
}

// ToggleStatus suspends or restores a branch, cascading to its employees
func (h *BranchHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.ToggleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	branch, err := h.Service.GetBranch(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if branch.CompanyID != principal.CompanyID {
		utils.Error(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}

	if err := h.Service.ToggleStatus(context.Background(), id, req.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}
