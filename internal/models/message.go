package models

import "time"

// Message receiver kinds (sender kinds are the role constants)
const (
	ReceiverCompany  = "company"
	ReceiverBranch   = "branch"
	ReceiverEmployee = "employee"
)

type Message struct {
	ID             int       `json:"id"`
	SenderType     string    `json:"sender_type"`
	SenderID       int       `json:"sender_id"`
	ReceiverType   string    `json:"receiver_type"`
	ReceiverID     int       `json:"receiver_id"`
	MessageText    string    `json:"message_text"`
	AttachmentLink string    `json:"attachment_link,omitempty"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageWithDetails is a message with resolved sender/receiver display names
type MessageWithDetails struct {
	Message
	SenderName   string `json:"sender_name"`
	ReceiverName string `json:"receiver_name"`
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverType   string `json:"receiver_type"`
	ReceiverID     int    `json:"receiver_id"`
	MessageText    string `json:"message_text"`
	AttachmentLink string `json:"attachment_link,omitempty"`
}

// MessageFilter narrows message listings; deleted messages are always excluded
type MessageFilter struct {
	ReceiverType string
	ReceiverID   int
	SenderType   string
	SenderID     int
}
