package models

import "time"

// MessageType categorises a support message.
type MessageType string

const (
	MessageTypeBug        MessageType = "bug"
	MessageTypeSuggestion MessageType = "suggestion"
	MessageTypeQuestion   MessageType = "question"
)

// MessagePriority orders the admin inbox.
type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityMedium MessagePriority = "medium"
	PriorityHigh   MessagePriority = "high"
	PriorityUrgent MessagePriority = "urgent"
)

// MessageStatus tracks the support workflow. Resolved is terminal.
type MessageStatus string

const (
	MessageStatusPending    MessageStatus = "pending"
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusResolved   MessageStatus = "resolved"
)

// AdminMessage is a support/contact message addressed to the admins.
type AdminMessage struct {
	ID          string          `db:"id" json:"id"`
	UserID      *string         `db:"user_id" json:"userId,omitempty"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	Subject     string          `db:"subject" json:"subject"`
	Message     string          `db:"message" json:"message"`
	Type        MessageType     `db:"type" json:"type"`
	Priority    MessagePriority `db:"priority" json:"priority"`
	Status      MessageStatus   `db:"status" json:"status"`
	RespondedBy *string         `db:"responded_by" json:"respondedBy,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// AdminMessageDetail joins a message with sender and responder display
// fields for the inbox view.
type AdminMessageDetail struct {
	AdminMessage
	SenderFirstName    *string `db:"sender_first_name" json:"senderFirstName,omitempty"`
	SenderLastName     *string `db:"sender_last_name" json:"senderLastName,omitempty"`
	SenderEmail        *string `db:"sender_email" json:"senderEmail,omitempty"`
	ResponderFirstName *string `db:"responder_first_name" json:"responderFirstName,omitempty"`
	ResponderLastName  *string `db:"responder_last_name" json:"responderLastName,omitempty"`
}

// SubmitMessageRequest holds the public contact form payload.
type SubmitMessageRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=bug suggestion question"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// MessageAction advances the support workflow.
type MessageAction string

const (
	MessageActionTake    MessageAction = "take"
	MessageActionResolve MessageAction = "resolve"
)
