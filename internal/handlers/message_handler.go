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

type MessageHandler struct {
	Service *services.MessageService
}

func NewMessageHandler(s *services.MessageService) *MessageHandler {
	return &MessageHandler{Service: s}
}

// SendMessage posts a message from the caller to a company, branch or
// employee inbox
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := h.Service.SendMessage(context.Background(), &req, principal.Role, principal.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, message)
}

// Inbox lists messages addressed to the caller. Branch inboxes are
// readable by the branch's managers.
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	var filter models.MessageFilter
	switch principal.Role {
	case models.RoleCompany:
		filter.ReceiverType = models.ReceiverCompany
		filter.ReceiverID = principal.ID
	case models.RoleManager, models.RoleAsstManager:
		filter.ReceiverType = models.ReceiverBranch
		filter.ReceiverID = principal.BranchID
	default:
		filter.ReceiverType = models.ReceiverEmployee
		filter.ReceiverID = principal.ID
	}

	messages, err := h.Service.ListMessages(context.Background(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, messages)
}

// Sent lists messages the caller has sent
func (h *MessageHandler) Sent(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())

	messages, err := h.Service.ListMessages(context.Background(), models.MessageFilter{
		SenderType: principal.Role,
		SenderID:   principal.ID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, messages)
}

// GetMessage returns a message with resolved sender and receiver names.
// Only the sender and the addressee can read it.
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	message, err := h.Service.GetMessageWithDetails(context.Background(), id, principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, message)
}

// DeleteMessage soft-deletes a message. Only the original sender may
// delete; the row is retained but hidden from every listing.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipalFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteMessage(context.Background(), id, principal.Role, principal.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
