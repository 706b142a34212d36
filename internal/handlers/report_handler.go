package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/services"
	"orgflow-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// SubmitReport upserts the calling employee's daily report; resubmitting
// for the same date replaces the content
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.Service.SubmitReport(context.Background(), principal.ID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// ListReports scopes reports to the caller: companies see all their
// branches, managers their branch, employees only their own
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Service.ListReports(context.Background(), reportFilterFor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, reports)
}

// ExportPDF renders the scoped report listing as a downloadable PDF
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	pdfBytes, err := h.Service.ExportPDF(context.Background(), reportFilterFor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("reports-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(pdfBytes)
}

func reportFilterFor(r *http.Request) models.ReportFilter {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	filter := models.ReportFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	switch principal.Role {
	case models.RoleCompany:
		filter.CompanyID = principal.CompanyID
	case models.RoleManager, models.RoleAsstManager:
		filter.BranchID = principal.BranchID
	default:
		filter.EmployeeID = principal.ID
	}
	return filter
}
