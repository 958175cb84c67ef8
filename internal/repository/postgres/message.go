package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Message, error) {
	query := `SELECT * FROM messages WHERE patient_id = $1 ORDER BY created_at ASC`
	var messages []*model.Message
	if err := r.GetDB().SelectContext(ctx, &messages, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Insert writes the message and keeps the conversation summary row in
// step, so conversation listing never scans the message table. Patient
// messages arrive unread and bump the counter.
func (r *messageRepository) Insert(ctx context.Context, msg *model.Message, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO messages (id, patient_id, sender_id, sender_name, role, body, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, query,
			msg.ID,
			msg.PatientID,
			msg.SenderID,
			msg.SenderName,
			msg.Role,
			msg.Body,
			msg.IsRead,
			msg.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}

		unreadDelta := 0
		if msg.Role == model.RolePatient {
			unreadDelta = 1
		}

		summary := `
			INSERT INTO conversations (patient_id, patient_name, last_message_id, last_message_at, unread_count, updated_at)
			VALUES ($1, (SELECT COALESCE(MAX(name), '') FROM patients WHERE id = $1), $2, $3, $4, $3)
			ON CONFLICT (patient_id) DO UPDATE
			SET last_message_id = EXCLUDED.last_message_id,
			    last_message_at = EXCLUDED.last_message_at,
			    unread_count    = conversations.unread_count + $4,
			    updated_at      = EXCLUDED.updated_at
		`
		if _, err := tx.ExecContext(ctx, summary, msg.PatientID, msg.ID, msg.CreatedAt, unreadDelta); err != nil {
			return fmt.Errorf("failed to update conversation summary: %w", err)
		}

		return insertOutboxTx(ctx, tx, event)
	})
}

func (r *messageRepository) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	query := `
		SELECT c.patient_id, c.patient_name, c.last_message_at, c.unread_count
		FROM conversations c
		ORDER BY c.last_message_at DESC
	`
	var conversations []*model.Conversation
	if err := r.GetDB().SelectContext(ctx, &conversations, query); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	last := `
		SELECT m.* FROM messages m
		JOIN conversations c ON c.last_message_id = m.id
		WHERE c.patient_id = $1
	`
	for _, conv := range conversations {
		var msg model.Message
		if err := r.GetDB().GetContext(ctx, &msg, last, conv.PatientID); err != nil {
			return nil, fmt.Errorf("failed to load last message: %w", err)
		}
		conv.LastMessage = &msg
	}
	return conversations, nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var affected int64
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE messages SET is_read = TRUE
			WHERE patient_id = $1 AND role = $2 AND is_read = FALSE
		`
		result, err := tx.ExecContext(ctx, query, patientID, model.RolePatient)
		if err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE conversations SET unread_count = 0, updated_at = NOW() WHERE patient_id = $1`,
			patientID,
		); err != nil {
			return fmt.Errorf("failed to reset conversation counter: %w", err)
		}
		return nil
	})
	return affected, err
}
