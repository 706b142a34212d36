package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
	"orgflow-backend/internal/services"
	"orgflow-backend/internal/storage"
	"orgflow-backend/pkg/utils"
)

const maxAvatarBytes = 2 << 20 // 2 MB

// ProfileHandler serves the caller's own account: profile fields,
// password changes and avatar uploads.
type ProfileHandler struct {
	Companies *services.CompanyService
	Employees *services.EmployeeService
	Admins    *repositories.AdminRepository
	Storage   *storage.Client // nil when object storage is not configured
}

func NewProfileHandler(companies *services.CompanyService, employees *services.EmployeeService, admins *repositories.AdminRepository, store *storage.Client) *ProfileHandler {
	return &ProfileHandler{
		Companies: companies,
		Employees: employees,
		Admins:    admins,
		Storage:   store,
	}
}

// GetProfile returns the caller's account record for their role
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	switch principal.Role {
	case models.RoleAdmin:
		admin, err := h.Admins.Get(context.Background(), principal.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, admin)
	case models.RoleCompany:
		company, err := h.Companies.GetCompany(context.Background(), principal.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, company)
	default:
		employee, err := h.Employees.GetEmployee(context.Background(), principal.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, employee)
	}
}

// UpdateProfile updates the caller's display name and avatar link
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req struct {
		Name       string `json:"name"`
		ProfilePic string `json:"profile_pic,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	var err error
	switch principal.Role {
	case models.RoleAdmin:
		err = h.Admins.UpdateProfile(context.Background(), principal.ID, req.Name, req.ProfilePic)
	case models.RoleCompany:
		err = h.Companies.UpdateProfile(context.Background(), principal.ID, &models.UpdateCompanyProfileRequest{
			CompanyName: req.Name,
			ProfilePic:  req.ProfilePic,
		})
	default:
		err = h.Employees.UpdateProfile(context.Background(), principal.ID, &models.UpdateEmployeeProfileRequest{
			EmployeeName: req.Name,
			ProfilePic:   req.ProfilePic,
		})
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

// ChangePassword verifies the current password before setting a new one
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var err error
	switch principal.Role {
	case models.RoleCompany:
		err = h.Companies.ChangePassword(context.Background(), principal.ID, &req)
	case models.RoleAdmin:
		utils.Error(w, http.StatusForbidden, "Admin passwords are managed out of band")
		return
	default:
		err = h.Employees.ChangePassword(context.Background(), principal.ID, &req)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

// UploadAvatar stores the uploaded image in object storage and points
// the caller's profile at it
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	if h.Storage == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.Storage.UploadProfilePic(context.Background(), principal.Role, principal.ID, data, contentType)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch principal.Role {
	case models.RoleAdmin:
		err = h.Admins.UpdateProfile(context.Background(), principal.ID, principal.Name, key)
	case models.RoleCompany:
		err = h.Companies.UpdateProfile(context.Background(), principal.ID, &models.UpdateCompanyProfileRequest{
			CompanyName: principal.Name,
			ProfilePic:  key,
		})
	default:
		err = h.Employees.UpdateProfile(context.Background(), principal.ID, &models.UpdateEmployeeProfileRequest{
			EmployeeName: principal.Name,
			ProfilePic:   key,
		})
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"profile_pic": key})
}

// AvatarURL returns a time-limited download URL for the caller's avatar
func (h *ProfileHandler) AvatarURL(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	if h.Storage == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}
	if principal.ProfilePic == "" {
		utils.Error(w, http.StatusNotFound, "No avatar set")
		return
	}

	url, err := h.Storage.PresignedURL(context.Background(), principal.ProfilePic, 15*time.Minute)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"url": url})
}
