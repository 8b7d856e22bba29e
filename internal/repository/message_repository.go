package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uad-deukouway/housing-api/internal/models"
)

const messageColumns = `m.id, m.user_id, m.name, m.email, m.subject, m.message, m.type, m.priority, m.status, m.responded_by, m.created_at`

// MessageRepository provides database access for the admin inbox.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new support message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.AdminMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO admin_messages (id, user_id, name, email, subject, message, type, priority, status, created_at) VALUES (:id, :user_id, :name, :email, :subject, :message, :type, :priority, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListDetailed returns every message newest first, joined with the sender
// account (when linked) and the responder (when resolved or taken).
func (r *MessageRepository) ListDetailed(ctx context.Context) ([]models.AdminMessageDetail, error) {
	query := fmt.Sprintf(`SELECT %s, s.first_name AS sender_first_name, s.last_name AS sender_last_name, s.email AS sender_email, resp.first_name AS responder_first_name, resp.last_name AS responder_last_name FROM admin_messages m LEFT JOIN users s ON s.id = m.user_id LEFT JOIN users resp ON resp.id = m.responded_by ORDER BY m.created_at DESC`, messageColumns)
	var messages []models.AdminMessageDetail
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// FindByID returns a message by identifier.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.AdminMessage, error) {
	query := fmt.Sprintf("SELECT %s FROM admin_messages m WHERE m.id = $1 LIMIT 1", messageColumns)
	var msg models.AdminMessage
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return &msg, nil
}

// UpdateStatus advances the workflow and stamps the responder.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id string, status models.MessageStatus, respondedBy string) error {
	const query = `UPDATE admin_messages SET status = $2, responded_by = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, respondedBy)
	if err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete hard-removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM admin_messages WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
