package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/service"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// NotifierHandler triggers the bulk listing broadcast.
type NotifierHandler struct {
	service *service.NotifierService
}

// NewNotifierHandler creates a new handler.
func NewNotifierHandler(svc *service.NotifierService) *NotifierHandler {
	return &NotifierHandler{service: svc}
}

// Notify godoc
// @Summary Email every account about new listings
// @Description Batched broadcast; with a listingId the mail carries that listing, otherwise a generic announcement. Failed batches do not stop the rest
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body object false "{listingId} (optional)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /admin/notify-users [post]
func (h *NotifierHandler) Notify(c *gin.Context) {
	var payload struct {
		ListingID string `json:"listingId"`
	}
	// the body is optional, an empty trigger sends the generic announcement
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
			return
		}
	}

	result, err := h.service.Broadcast(c.Request.Context(), payload.ListingID)
	if err != nil {
		if result != nil {
			response.ErrorWithData(c, err, result)
			return
		}
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
