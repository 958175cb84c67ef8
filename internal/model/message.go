package model

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to the conversation keyed by PatientID. Immutable after
// insert except for the IsRead flag, which staff flip in bulk.
type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	SenderName string    `db:"sender_name" json:"sender_name"`
	Role       Role      `db:"role" json:"role"`
	Body       string    `db:"body" json:"body"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Conversation is the per-patient thread summary: the latest message and
// the number of patient-authored messages staff have not read yet. The
// summary row is maintained transactionally with every insert and
// mark-read so listing conversations never scans the message table.
type Conversation struct {
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
	UnreadCount   int64     `db:"unread_count" json:"unread_count"`
	LastMessage   *Message  `db:"-" json:"last_message,omitempty"`
}

type SendMessageRequest struct {
	Body      string     `json:"body" validate:"required,max=4000"`
	PatientID *uuid.UUID `json:"patient_id"`
}
