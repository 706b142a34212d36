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

type CompanyHandler struct {
	Service *services.CompanyService
}

func NewCompanyHandler(s *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Service: s}
}

// CreateCompany registers a company account and its main branch
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.Service.CreateCompany(context.Background(), &req, principal.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	company, err := h.Service.GetCompany(context.Background(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies(context.Background())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, companies)
}

// ToggleStatus suspends or restores a company, cascading to its
// branches and employees
func (h *CompanyHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.ToggleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.ToggleStatus(context.Background(), id, req.IsActive); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}
