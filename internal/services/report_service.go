package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"orgflow-backend/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportStore is implemented by repositories.ReportRepository
type ReportStore interface {
	Upsert(ctx context.Context, rep *models.Report) error
	Get(ctx context.Context, id int) (*models.Report, error)
	List(ctx context.Context, f models.ReportFilter) ([]*models.ReportWithDetails, error)
}

// ReportService handles daily reports and their PDF export
type ReportService struct {
	Repo ReportStore
}

func NewReportService(repo ReportStore) *ReportService {
	return &ReportService{Repo: repo}
}

// SubmitReport writes the employee's report for the given date. One row
// per (employee, date): a second submission for the same date replaces
// the content instead of creating a duplicate.
func (s *ReportService) SubmitReport(ctx context.Context, employeeID int, req *models.SubmitReportRequest) (*models.Report, error) {
	if req.Content == "" {
		return nil, ErrInvalidInput
	}
	reportDate, err := time.Parse("2006-01-02", req.ReportDate)
	if err != nil {
		return nil, ErrInvalidInput
	}

	report := &models.Report{
		EmployeeID: employeeID,
		ReportDate: reportDate,
		Content:    req.Content,
	}
	if err := s.Repo.Upsert(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, f models.ReportFilter) ([]*models.ReportWithDetails, error) {
	return s.Repo.List(ctx, f)
}

// ExportPDF renders a filtered report listing as a PDF document
func (s *ReportService) ExportPDF(ctx context.Context, f models.ReportFilter) ([]byte, error) {
	reports, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Daily Reports", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Column headers
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(25, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Employee", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Role", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Branch", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Report", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, rep := range reports {
		content := rep.Content
		if len(content) > 90 {
			content = content[:87] + "..."
		}
		pdf.CellFormat(25, 7, rep.ReportDate.Format("02-01-2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, rep.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, rep.EmployeeRole, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, rep.BranchName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, content, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
