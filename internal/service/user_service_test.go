package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
)

type mockAdminUserRepo struct {
	byID      *models.User
	nonAdmins []models.AdminUser

	blockedID string
	blocked   bool
	blockedBy *string
	blockedAt *time.Time
}

func (m *mockAdminUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockAdminUserRepo) ListNonAdmins(ctx context.Context) ([]models.AdminUser, error) {
	return m.nonAdmins, nil
}

func (m *mockAdminUserRepo) SetBlocked(ctx context.Context, id string, blocked bool, by *string, at *time.Time) error {
	m.blockedID = id
	m.blocked = blocked
	m.blockedBy = by
	m.blockedAt = at
	return nil
}

func TestBlockStudent(t *testing.T) {
	repo := &mockAdminUserRepo{byID: &models.User{ID: "u1", Role: models.RoleStudent}}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.SetBlocked(context.Background(), "admin-1", "u1", models.BlockActionBlock)
	require.NoError(t, err)
	assert.Equal(t, "u1", repo.blockedID)
	assert.True(t, repo.blocked)
	require.NotNil(t, repo.blockedBy)
	assert.Equal(t, "admin-1", *repo.blockedBy)
	assert.NotNil(t, repo.blockedAt)
}

func TestUnblockClearsAudit(t *testing.T) {
	repo := &mockAdminUserRepo{byID: &models.User{ID: "u1", Role: models.RoleLandlord, Blocked: true}}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.SetBlocked(context.Background(), "admin-1", "u1", models.BlockActionUnblock)
	require.NoError(t, err)
	assert.False(t, repo.blocked)
	assert.Nil(t, repo.blockedBy)
	assert.Nil(t, repo.blockedAt)
}

func TestBlockAdminForbidden(t *testing.T) {
	repo := &mockAdminUserRepo{byID: &models.User{ID: "a2", Role: models.RoleAdmin}}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.SetBlocked(context.Background(), "admin-1", "a2", models.BlockActionBlock)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.blockedID)
}

func TestBlockUnknownTarget(t *testing.T) {
	repo := &mockAdminUserRepo{}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.SetBlocked(context.Background(), "admin-1", "missing", models.BlockActionBlock)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBlockUnknownAction(t *testing.T) {
	repo := &mockAdminUserRepo{byID: &models.User{ID: "u1", Role: models.RoleStudent}}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.SetBlocked(context.Background(), "admin-1", "u1", "suspend")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListNonAdmins(t *testing.T) {
	repo := &mockAdminUserRepo{nonAdmins: []models.AdminUser{{ID: "u1"}, {ID: "u2"}}}
	svc := NewUserService(repo, nil, zap.NewNop())

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
