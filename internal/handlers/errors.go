package handlers

import (
	"errors"
	"net/http"

	"orgflow-backend/internal/services"
	"orgflow-backend/pkg/utils"
)

// writeServiceError maps service errors onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
