package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth-token"

// ContextUserKey is the gin context key storing the authenticated user.
const ContextUserKey = "currentUser"

// UserLoader resolves the account behind a session. The row is re-read on
// every request so role and block changes apply without reissuing tokens.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Session protects routes by requiring a valid session cookie. The token
// only identifies the account; the user row itself is loaded fresh.
func Session(authService *service.AuthService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveSession(c, authService, users)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalSession attaches the user when a valid cookie is present but
// never blocks the request.
func OptionalSession(authService *service.AuthService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveSession(c, authService, users); err == nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

func resolveSession(c *gin.Context, authService *service.AuthService, users UserLoader) (*models.User, error) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	claims, err := authService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session")
	}

	return user, nil
}

// CurrentUser pulls the authenticated user out of the request context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
