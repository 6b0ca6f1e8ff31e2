package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/dto"
	"github.com/rotafrete/contabil_backend/internal/middleware"
)

// apurationHandler handles HTTP requests related to tax apurations.
type apurationHandler struct {
	apurationService ports.ApurationService
}

func newApurationHandler(as ports.ApurationService) *apurationHandler {
	return &apurationHandler{apurationService: as}
}

// registerApurationRoutes registers routes related to tax apurations.
func registerApurationRoutes(rg *gin.RouterGroup, apurationService ports.ApurationService) {
	h := newApurationHandler(apurationService)

	apurations := rg.Group("/apurations")
	{
		apurations.POST("", h.computeApuration)
		apurations.GET("", h.listApurations)
		apurations.GET("/:id", h.getApuration)
		apurations.POST("/:id/activate", h.activateApuration)
		apurations.POST("/:id/close", h.closeApuration)
	}
}

// computeApuration godoc
// @Summary Compute the tax apuration for a period
// @Description Derives PIS, COFINS, IRPJ and CSLL with loss carryforward from the prior period; the result is stored as DRAFT
// @Tags apurations
// @Accept  json
// @Produce  json
// @Param   apuration body dto.ComputeApurationRequest true "Apuration inputs"
// @Success 201 {object} dto.ApurationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Period already finalized or concurrent write"
// @Failure 422 {object} map[string]string "Prior period missing or not finalized"
// @Router /apurations [post]
func (h *apurationHandler) computeApuration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ComputeApurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ComputeApuration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	apuration, err := h.apurationService.ComputeApuration(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.respondError(c, err, "Failed to compute apuration")
		return
	}

	c.JSON(http.StatusCreated, dto.ToApurationResponse(apuration))
}

// activateApuration godoc
// @Summary Activate a draft apuration
// @Description Transitions DRAFT to ACTIVE, making it the prior-period input for the next period
// @Tags apurations
// @Produce  json
// @Param   id path string true "Apuration ID"
// @Success 200 {object} dto.ApurationResponse
// @Failure 400 {object} map[string]string "Illegal status transition"
// @Failure 404 {object} map[string]string "Apuration not found"
// @Router /apurations/{id}/activate [post]
func (h *apurationHandler) activateApuration(c *gin.Context) {
	apuration, err := h.apurationService.ActivateApuration(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		h.respondError(c, err, "Failed to activate apuration")
		return
	}
	c.JSON(http.StatusOK, dto.ToApurationResponse(apuration))
}

// closeApuration godoc
// @Summary Close an active apuration
// @Description Transitions ACTIVE to CLOSED; a closed apuration is immutable and authoritative
// @Tags apurations
// @Produce  json
// @Param   id path string true "Apuration ID"
// @Success 200 {object} dto.ApurationResponse
// @Failure 400 {object} map[string]string "Illegal status transition"
// @Failure 404 {object} map[string]string "Apuration not found"
// @Router /apurations/{id}/close [post]
func (h *apurationHandler) closeApuration(c *gin.Context) {
	apuration, err := h.apurationService.CloseApuration(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		h.respondError(c, err, "Failed to close apuration")
		return
	}
	c.JSON(http.StatusOK, dto.ToApurationResponse(apuration))
}

// getApuration godoc
// @Summary Get an apuration by ID
// @Tags apurations
// @Produce  json
// @Param   id path string true "Apuration ID"
// @Success 200 {object} dto.ApurationResponse
// @Failure 404 {object} map[string]string "Apuration not found"
// @Router /apurations/{id} [get]
func (h *apurationHandler) getApuration(c *gin.Context) {
	apuration, err := h.apurationService.GetApurationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get apuration")
		return
	}
	c.JSON(http.StatusOK, dto.ToApurationResponse(apuration))
}

// listApurations godoc
// @Summary List apurations
// @Description Lists apurations in chronological order with pagination
// @Tags apurations
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.ApurationResponse
// @Router /apurations [get]
func (h *apurationHandler) listApurations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListApurationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListApurations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	apurations, err := h.apurationService.ListApurations(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list apurations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list apurations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListApurationResponse(apurations))
}

// respondError maps apuration errors onto HTTP statuses.
func (h *apurationHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSequence):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}
