package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
)

type mockMessageRepo struct {
	created *models.AdminMessage
	byID    *models.AdminMessage
	inbox   []models.AdminMessageDetail

	updatedID     string
	updatedStatus models.MessageStatus
	updatedBy     string
	deletedID     string
	deleteErr     error
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.AdminMessage) error {
	msg.ID = "new-message"
	m.created = msg
	return nil
}

func (m *mockMessageRepo) ListDetailed(ctx context.Context) ([]models.AdminMessageDetail, error) {
	return m.inbox, nil
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (*models.AdminMessage, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockMessageRepo) UpdateStatus(ctx context.Context, id string, status models.MessageStatus, respondedBy string) error {
	m.updatedID = id
	m.updatedStatus = status
	m.updatedBy = respondedBy
	m.byID.Status = status
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func messagePayload() models.SubmitMessageRequest {
	return models.SubmitMessageRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Search is broken",
		Message: "Accented queries return nothing",
		Type:    "bug",
	}
}

func TestSubmitDefaultsPriorityAndStatus(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	msg, err := svc.Submit(context.Background(), nil, messagePayload())
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, msg.Priority)
	assert.Equal(t, models.MessageStatusPending, msg.Status)
	assert.Nil(t, msg.UserID)
}

func TestSubmitLinksSessionUser(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	userID := "u1"
	msg, err := svc.Submit(context.Background(), &userID, messagePayload())
	require.NoError(t, err)
	require.NotNil(t, msg.UserID)
	assert.Equal(t, "u1", *msg.UserID)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	req := messagePayload()
	req.Type = "complaint"
	_, err := svc.Submit(context.Background(), nil, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTakePendingMessage(t *testing.T) {
	repo := &mockMessageRepo{byID: &models.AdminMessage{ID: "m1", Status: models.MessageStatusPending}}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	_, err := svc.Advance(context.Background(), "admin-1", "m1", models.MessageActionTake)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusInProgress, repo.updatedStatus)
	assert.Equal(t, "admin-1", repo.updatedBy)
}

func TestTakeAlreadyTakenConflicts(t *testing.T) {
	repo := &mockMessageRepo{byID: &models.AdminMessage{ID: "m1", Status: models.MessageStatusInProgress}}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	_, err := svc.Advance(context.Background(), "admin-1", "m1", models.MessageActionTake)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestResolveFromPending(t *testing.T) {
	repo := &mockMessageRepo{byID: &models.AdminMessage{ID: "m1", Status: models.MessageStatusPending}}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	_, err := svc.Advance(context.Background(), "admin-1", "m1", models.MessageActionResolve)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusResolved, repo.updatedStatus)
}

func TestResolvedIsTerminal(t *testing.T) {
	repo := &mockMessageRepo{byID: &models.AdminMessage{ID: "m1", Status: models.MessageStatusResolved}}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	_, err := svc.Advance(context.Background(), "admin-1", "m1", models.MessageActionResolve)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAdvanceUnknownMessage(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	_, err := svc.Advance(context.Background(), "admin-1", "missing", models.MessageActionTake)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteMissingMessage(t *testing.T) {
	repo := &mockMessageRepo{deleteErr: sql.ErrNoRows}
	svc := NewMessageService(repo, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
