package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListNonAdmins(ctx context.Context) ([]models.AdminUser, error)
	SetBlocked(ctx context.Context, id string, blocked bool, by *string, at *time.Time) error
}

// UserService owns the admin-side account management use cases.
type UserService struct {
	repo   adminUserRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(repo adminUserRepository, cache *CacheService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns every non-admin account for the management board.
func (s *UserService) List(ctx context.Context) ([]models.AdminUser, error) {
	users, err := s.repo.ListNonAdmins(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// SetBlocked applies a block or unblock decision. Admin accounts cannot be
// blocked, not even by another admin.
func (s *UserService) SetBlocked(ctx context.Context, adminID, targetID string, action models.BlockAction) (*models.User, error) {
	if action != models.BlockActionBlock && action != models.BlockActionUnblock {
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be block or unblock")
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if target.Role == models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin accounts cannot be blocked")
	}

	blocked := action == models.BlockActionBlock
	var by *string
	var at *time.Time
	if blocked {
		by = &adminID
		ts := s.now()
		at = &ts
	}

	if err := s.repo.SetBlocked(ctx, targetID, blocked, by, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	if err := s.cache.Invalidate(ctx, statsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("user block state changed",
		zap.String("user_id", targetID),
		zap.String("admin_id", adminID),
		zap.Bool("blocked", blocked))

	return s.repo.FindByID(ctx, targetID)
}
