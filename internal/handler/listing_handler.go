package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
	appErrors "github.com/uad-deukouway/housing-api/pkg/errors"
	"github.com/uad-deukouway/housing-api/pkg/response"
)

// ListingHandler wires HTTP endpoints to the listing service.
type ListingHandler struct {
	service *service.ListingService
}

// NewListingHandler creates a new handler.
func NewListingHandler(svc *service.ListingService) *ListingHandler {
	return &ListingHandler{service: svc}
}

// Browse godoc
// @Summary Search public listings
// @Description Approved, active listings with filters and pagination
// @Tags Listings
// @Produce json
// @Param search query string false "Match against title, description and location"
// @Param type query string false "room | apartment | house"
// @Param mode query string false "colocation | classic"
// @Param maxPrice query int false "Upper price bound"
// @Param caution query string false "no_caution | with_caution"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /listings [get]
func (h *ListingHandler) Browse(c *gin.Context) {
	filter := models.ListingFilter{
		Search:  c.Query("search"),
		Type:    c.Query("type"),
		Mode:    c.Query("mode"),
		Caution: c.Query("caution"),
	}
	filter.MaxPrice, _ = strconv.Atoi(c.Query("maxPrice"))
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, pagination, err := h.service.Browse(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// Detail godoc
// @Summary Fetch one listing
// @Tags Listings
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /listings/{id} [get]
func (h *ListingHandler) Detail(c *gin.Context) {
	listing, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, listing, nil)
}

// Create godoc
// @Summary Submit a listing
// @Description New listings await moderation unless submitted by an admin
// @Tags Listings
// @Accept json
// @Produce json
// @Param payload body models.CreateListingRequest true "Listing payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	actor := userFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid listing payload"))
		return
	}

	listing, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, listing)
}

// Mine godoc
// @Summary Own listings
// @Description Every listing of the caller, pending ones included
// @Tags Listings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /listings/user [get]
func (h *ListingHandler) Mine(c *gin.Context) {
	actor := userFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	listings, err := h.service.Mine(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, listings, nil)
}

// Delete godoc
// @Summary Delete a listing
// @Description Owners delete their own listings, admins delete any
// @Tags Listings
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	actor := userFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "listing deleted"}, nil)
}
