package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/models"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// RequireAdmin gates a route on the admin role. It runs after Session, so
// the role comes from the freshly loaded row and a demotion takes effect
// on the very next request.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
