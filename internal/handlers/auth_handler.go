package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"orgflow-backend/internal/metrics"
	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/services"
	"orgflow-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(s *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login authenticates a principal against the table its role selects
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	authResp, err := h.Service.Authenticate(context.Background(), &req)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(req.Role, "failure").Inc()
		writeServiceError(w, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues(authResp.Principal.Role, "success").Inc()
	log.Printf("[Auth] %s %q logged in from %s", authResp.Principal.Role, authResp.Principal.Username, getIPAddress(r))
	utils.JSON(w, http.StatusOK, authResp)
}

// Logout revokes the caller's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	h.Service.Logout(context.Background(), principal.Role, principal.ID)
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the freshly resolved principal for the current token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	utils.JSON(w, http.StatusOK, principal)
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
