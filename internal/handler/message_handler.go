package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// MessageHandler wires HTTP endpoints to the support inbox.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Submit godoc
// @Summary File a support message
// @Description Public contact form; linked to the session when one exists
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SubmitMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Submit(c *gin.Context) {
	var req models.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	var userID *string
	if user := userFromContext(c); user != nil {
		userID = &user.ID
	}

	msg, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, msg)
}

// Inbox godoc
// @Summary Support inbox
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	messages, err := h.service.Inbox(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, messages, nil)
}

// Advance godoc
// @Summary Advance a support message
// @Description Take claims a pending message, resolve closes it
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Message id"
// @Param payload body object true "{action: take|resolve}"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/messages/{id} [put]
func (h *MessageHandler) Advance(c *gin.Context) {
	admin := userFromContext(c)
	if admin == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Action models.MessageAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "action is required"))
		return
	}

	msg, err := h.service.Advance(c.Request.Context(), admin.ID, c.Param("id"), payload.Action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, msg, nil)
}

// Delete godoc
// @Summary Delete a support message
// @Tags Messages
// @Produce json
// @Param id path string true "Message id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
