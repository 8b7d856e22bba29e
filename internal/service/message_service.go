package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, msg *models.AdminMessage) error
	ListDetailed(ctx context.Context) ([]models.AdminMessageDetail, error)
	FindByID(ctx context.Context, id string) (*models.AdminMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.MessageStatus, respondedBy string) error
	Delete(ctx context.Context, id string) error
}

// MessageService owns the support inbox workflow.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(repo messageRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{repo: repo, validator: validate, logger: logger}
}

// Submit files a support message. The sender may be anonymous; a logged-in
// sender gets linked through userID.
func (s *MessageService) Submit(ctx context.Context, userID *string, req models.SubmitMessageRequest) (*models.AdminMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	priority := models.MessagePriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	msg := &models.AdminMessage{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
		Type:     models.MessageType(req.Type),
		Priority: priority,
		Status:   models.MessageStatusPending,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit message")
	}

	s.logger.Info("support message filed",
		zap.String("message_id", msg.ID),
		zap.String("type", string(msg.Type)),
		zap.String("priority", string(msg.Priority)))

	return msg, nil
}

// Inbox returns every message with sender and responder details.
func (s *MessageService) Inbox(ctx context.Context) ([]models.AdminMessageDetail, error) {
	messages, err := s.repo.ListDetailed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return messages, nil
}

// Advance moves a message through the workflow. Take assigns a pending
// message to the acting admin; resolve closes one in progress. Resolved is
// terminal.
func (s *MessageService) Advance(ctx context.Context, adminID, messageID string, action models.MessageAction) (*models.AdminMessage, error) {
	msg, err := s.repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch message")
	}

	var next models.MessageStatus
	switch action {
	case models.MessageActionTake:
		if msg.Status != models.MessageStatusPending {
			return nil, appErrors.Clone(appErrors.ErrConflict, "message is already being handled")
		}
		next = models.MessageStatusInProgress
	case models.MessageActionResolve:
		if msg.Status == models.MessageStatusResolved {
			return nil, appErrors.Clone(appErrors.ErrConflict, "message is already resolved")
		}
		next = models.MessageStatusResolved
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be take or resolve")
	}

	if err := s.repo.UpdateStatus(ctx, messageID, next, adminID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update message")
	}

	s.logger.Info("support message advanced",
		zap.String("message_id", messageID),
		zap.String("admin_id", adminID),
		zap.String("status", string(next)))

	return s.repo.FindByID(ctx, messageID)
}

// Delete removes a message from the inbox.
func (s *MessageService) Delete(ctx context.Context, messageID string) error {
	if err := s.repo.Delete(ctx, messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete message")
	}
	s.logger.Info("support message deleted", zap.String("message_id", messageID))
	return nil
}
