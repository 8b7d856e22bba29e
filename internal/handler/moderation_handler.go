package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/export"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// ModerationHandler exposes the admin listing board.
type ModerationHandler struct {
	service *service.ListingService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewModerationHandler creates a new handler.
func NewModerationHandler(svc *service.ListingService) *ModerationHandler {
	return &ModerationHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// ListAll godoc
// @Summary All listings for moderation
// @Description Every listing with owner contact info, validated or not
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/listings [get]
func (h *ModerationHandler) ListAll(c *gin.Context) {
	listings, err := h.service.ListAllForAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, listings, nil)
}

// Export godoc
// @Summary Export the listing board
// @Tags Moderation
// @Produce octet-stream
// @Param format query string false "csv | pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/listings/export [get]
func (h *ModerationHandler) Export(c *gin.Context) {
	dataset, err := h.service.ExportDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(*dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"listings-%s.csv\"", stamp))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(*dataset, "Listings")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"listings-%s.pdf\"", stamp))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// Validate godoc
// @Summary Moderate a listing
// @Description Approve publishes the listing, reject deactivates it
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Listing id"
// @Param payload body object true "{action: approve|reject}"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/listings/{id}/validate [post]
func (h *ModerationHandler) Validate(c *gin.Context) {
	admin := userFromContext(c)
	if admin == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Action models.ValidationAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "action is required"))
		return
	}

	listing, err := h.service.Validate(c.Request.Context(), admin.ID, c.Param("id"), payload.Action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, listing, nil)
}
