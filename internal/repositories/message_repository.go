package repositories

import (
	"context"

	"orgflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	DB *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO messages(sender_type, sender_id, receiver_type, receiver_id, message_text, attachment_link)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, is_deleted, created_at, updated_at`,
		m.SenderType, m.SenderID, m.ReceiverType, m.ReceiverID, m.MessageText, m.AttachmentLink,
	).Scan(&m.ID, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MessageRepository) Get(ctx context.Context, id int) (*models.Message, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, sender_type, sender_id, receiver_type, receiver_id, message_text, attachment_link, is_deleted, created_at, updated_at
         FROM messages WHERE id=$1`, id)

	var m models.Message
	err := row.Scan(&m.ID, &m.SenderType, &m.SenderID, &m.ReceiverType, &m.ReceiverID,
		&m.MessageText, &m.AttachmentLink, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns messages matched by the filter, newest first. Soft-deleted
// messages are always excluded.
func (r *MessageRepository) List(ctx context.Context, f models.MessageFilter) ([]*models.Message, error) {
	query := `SELECT id, sender_type, sender_id, receiver_type, receiver_id,
                     message_text, attachment_link, is_deleted, created_at, updated_at
              FROM messages WHERE NOT is_deleted`
	var args []any
	if f.ReceiverType != "" && f.ReceiverID != 0 {
		args = append(args, f.ReceiverType)
		query += ` AND receiver_type=$` + itoa(len(args))
		args = append(args, f.ReceiverID)
		query += ` AND receiver_id=$` + itoa(len(args))
	}
	if f.SenderType != "" && f.SenderID != 0 {
		args = append(args, f.SenderType)
		query += ` AND sender_type=$` + itoa(len(args))
		args = append(args, f.SenderID)
		query += ` AND sender_id=$` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.SenderType, &m.SenderID, &m.ReceiverType, &m.ReceiverID,
			&m.MessageText, &m.AttachmentLink, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// SoftDelete marks the message deleted, guarded by the sender identity so
// only the author can remove it. The row itself is never deleted.
// Returns false when no row matched.
func (r *MessageRepository) SoftDelete(ctx context.Context, id int, senderType string, senderID int) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE messages SET is_deleted=TRUE, updated_at=NOW()
         WHERE id=$1 AND sender_type=$2 AND sender_id=$3`,
		id, senderType, senderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ResolveName returns the display name for a (type, id) participant pair
func (r *MessageRepository) ResolveName(ctx context.Context, kind string, id int) (string, error) {
	var query string
	switch kind {
	case "admin":
		query = `SELECT profile_name FROM admins WHERE id=$1`
	case "company":
		query = `SELECT company_name FROM companies WHERE id=$1`
	case "branch":
		query = `SELECT branch_name FROM branches WHERE id=$1`
	default: // employee, manager, asst_manager
		query = `SELECT employee_name FROM employees WHERE id=$1`
	}

	var name string
	if err := r.DB.QueryRow(ctx, query, id).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}
