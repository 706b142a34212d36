package services

import (
	"context"

	"orgflow-backend/internal/models"
	"orgflow-backend/internal/repositories"
)

// MessageStore is implemented by repositories.MessageRepository
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	Get(ctx context.Context, id int) (*models.Message, error)
	List(ctx context.Context, f models.MessageFilter) ([]*models.Message, error)
	SoftDelete(ctx context.Context, id int, senderType string, senderID int) (bool, error)
	ResolveName(ctx context.Context, kind string, id int) (string, error)
}

// MessageService sends, lists and soft-deletes messages between principals
type MessageService struct {
	Repo MessageStore

	// Notify, when set, is called after each successful send so connected
	// receivers can be pushed the message live.
	Notify func(m *models.Message)
}

func NewMessageService(repo MessageStore) *MessageService {
	return &MessageService{Repo: repo}
}

func (s *MessageService) SendMessage(ctx context.Context, req *models.SendMessageRequest, senderType string, senderID int) (*models.Message, error) {
	if req.MessageText == "" || req.ReceiverID == 0 {
		return nil, ErrInvalidInput
	}
	switch req.ReceiverType {
	case models.ReceiverCompany, models.ReceiverBranch, models.ReceiverEmployee:
	default:
		return nil, ErrInvalidInput
	}

	message := &models.Message{
		SenderType:     senderType,
		SenderID:       senderID,
		ReceiverType:   req.ReceiverType,
		ReceiverID:     req.ReceiverID,
		MessageText:    req.MessageText,
		AttachmentLink: req.AttachmentLink,
	}
	if err := s.Repo.Create(ctx, message); err != nil {
		return nil, err
	}

	if s.Notify != nil {
		s.Notify(message)
	}
	return message, nil
}

func (s *MessageService) ListMessages(ctx context.Context, f models.MessageFilter) ([]*models.Message, error) {
	return s.Repo.List(ctx, f)
}

// DeleteMessage soft-deletes a message. Only the sender can delete; the
// row is kept with is_deleted set and drops out of listings.
func (s *MessageService) DeleteMessage(ctx context.Context, id int, senderType string, senderID int) error {
	deleted, err := s.Repo.SoftDelete(ctx, id, senderType, senderID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// messageVisibleTo reports whether the principal is the message's sender
// or its addressee. Branch inboxes are readable by the branch's managers.
func messageVisibleTo(m *models.Message, p *models.Principal) bool {
	if m.SenderType == p.Role && m.SenderID == p.ID {
		return true
	}
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCompany:
		return m.ReceiverType == models.ReceiverCompany && m.ReceiverID == p.ID
	case models.RoleManager, models.RoleAsstManager:
		if m.ReceiverType == models.ReceiverBranch && m.ReceiverID == p.BranchID {
			return true
		}
		return m.ReceiverType == models.ReceiverEmployee && m.ReceiverID == p.ID
	default:
		return m.ReceiverType == models.ReceiverEmployee && m.ReceiverID == p.ID
	}
}

// GetMessageWithDetails returns the message with resolved sender and
// receiver display names. Messages not addressed to or sent by the
// viewer are reported as not found.
func (s *MessageService) GetMessageWithDetails(ctx context.Context, id int, viewer *models.Principal) (*models.MessageWithDetails, error) {
	message, err := s.Repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !messageVisibleTo(message, viewer) {
		return nil, ErrNotFound
	}

	senderName, err := s.Repo.ResolveName(ctx, message.SenderType, message.SenderID)
	if err != nil {
		senderName = "Unknown"
	}
	receiverName, err := s.Repo.ResolveName(ctx, message.ReceiverType, message.ReceiverID)
	if err != nil {
		receiverName = "Unknown"
	}

	return &models.MessageWithDetails{
		Message:      *message,
		SenderName:   senderName,
		ReceiverName: receiverName,
	}, nil
}
