package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/middleware"
	"github.com/uad-deukouway/housing-api/internal/models"
)

func userFromContext(c *gin.Context) *models.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return user
}
