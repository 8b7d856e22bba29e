package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/service"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// StatisticsHandler serves the admin dashboard numbers.
type StatisticsHandler struct {
	service *service.StatisticsService
}

// NewStatisticsHandler creates a new handler.
func NewStatisticsHandler(svc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: svc}
}

// Report godoc
// @Summary Platform statistics
// @Description Totals, period counts, growth and the 7-day series
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/statistics [get]
func (h *StatisticsHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}
