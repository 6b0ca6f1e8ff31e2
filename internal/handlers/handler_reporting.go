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

// reportingHandler handles HTTP requests for the trial balance and statements.
type reportingHandler struct {
	reportingService ports.ReportingService
}

func newReportingHandler(rs ports.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService ports.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.POST("/balance-sheet", h.balanceSheet)
		reports.POST("/income-statement", h.incomeStatement)
	}
}

// trialBalance godoc
// @Summary Compute the trial balance for a period
// @Description Summarizes opening balance, debits, credits and closing balance per account
// @Tags reports
// @Produce  json
// @Param   periodStart query string true "Period start (YYYY-MM-DD)"
// @Param   periodEnd query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 409 {object} map[string]string "Concurrent post invalidated the aggregation"
// @Failure 422 {object} map[string]string "Debit and credit totals disagree"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for TrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	openings, err := h.reportingService.OpeningBalances(c.Request.Context(), params.PeriodStart)
	if err != nil {
		logger.Error("Failed to compute opening balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute opening balances"})
		return
	}

	tb, err := h.reportingService.ComputeTrialBalance(c.Request.Context(), params.PeriodStart, params.PeriodEnd, openings)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrImbalance) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute trial balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trial balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// balanceSheet godoc
// @Summary Build a balance sheet
// @Description Totals both sides of the balance sheet; rejects mismatches beyond 0.01
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   totals body dto.BalanceSheetRequest true "Classified totals"
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Totals do not match"
// @Router /reports/balance-sheet [post]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BalanceSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BalanceSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sheet, err := h.reportingService.BuildBalanceSheet(req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build balance sheet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build balance sheet"})
		}
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// incomeStatement godoc
// @Summary Build an income statement
// @Description Runs the fixed derivation cascade from gross revenue to net result
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   inputs body dto.IncomeStatementRequest true "Statement inputs"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid input format"
// @Router /reports/income-statement [post]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IncomeStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IncomeStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.reportingService.BuildIncomeStatement(req))
}
