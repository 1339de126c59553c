package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/middleware"
)

// reportHandler handles HTTP requests related to monthly reports and the
// dashboard overview.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers routes related to reports.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	rg.GET("/overview", h.overview)

	reports := rg.Group("/reports")
	{
		reports.POST("/generate", h.generateReport)
		reports.GET("", h.listReports)
		reports.GET("/:year/:month", h.getReport)
		reports.PUT("/:year/:month/finalize", h.finalizeReport)
		reports.GET("/:year/:month/pdf", h.reportPDFData)
	}
}

// periodFromPath parses the /:year/:month path segments.
func periodFromPath(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year in path"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month in path"})
		return 0, 0, false
	}
	return year, month, true
}

// generateReport godoc
// @Summary Generate a monthly report
// @Description Snapshots jar and transaction state into the draft report for the period (defaults to the current month). Regenerating replaces the draft; a finalized period is rejected.
// @Tags reports
// @Accept json
// @Produce json
// @Param period body dto.GenerateReportRequest false "Report period"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Report already finalized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /finance/reports/generate [post]
func (h *reportHandler) generateReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.GenerateReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for GenerateReport", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if req.Year != nil {
		year = *req.Year
	}
	if req.Month != nil {
		month = *req.Month
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyFinalized) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// listReports godoc
// @Summary List monthly reports
// @Description Lists report headers newest first
// @Tags reports
// @Produce json
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month"
// @Param limit query int false "Page size (default 12)"
// @Success 200 {object} dto.ListReportsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reports"
// @Security BearerAuth
// @Router /finance/reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list reports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, dto.ListReportsResponse{Reports: dto.ToReportResponses(reports)})
}

// getReport godoc
// @Summary Get a monthly report
// @Description Retrieves the report with its jar snapshots for (year, month)
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to retrieve report"
// @Security BearerAuth
// @Router /finance/reports/{year}/{month} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, month, ok := periodFromPath(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// finalizeReport godoc
// @Summary Finalize a monthly report
// @Description Locks the report for (year, month); a one-way transition
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Report already finalized"
// @Failure 500 {object} map[string]string "Failed to finalize report"
// @Security BearerAuth
// @Router /finance/reports/{year}/{month}/finalize [put]
func (h *reportHandler) finalizeReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, month, ok := periodFromPath(c)
	if !ok {
		return
	}

	report, err := h.reportService.FinalizeReport(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else if errors.Is(err, apperrors.ErrAlreadyFinalized) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to finalize report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// reportPDFData godoc
// @Summary Get the PDF projection of a report
// @Description Returns the report reshaped for document export with pre-formatted amounts and a category breakdown
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.PDFReportData
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Failed to build report export"
// @Security BearerAuth
// @Router /finance/reports/{year}/{month}/pdf [get]
func (h *reportHandler) reportPDFData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, month, ok := periodFromPath(c)
	if !ok {
		return
	}

	data, err := h.reportService.BuildPDFReportData(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build report export", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report export"})
		}
		return
	}

	c.JSON(http.StatusOK, data)
}

// overview godoc
// @Summary Get the dashboard overview
// @Description Aggregates income, allocations, balances and per-jar status for the current month
// @Tags overview
// @Produce json
// @Success 200 {object} domain.Overview
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build overview"
// @Security BearerAuth
// @Router /finance/overview [get]
func (h *reportHandler) overview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	overview, err := h.reportService.Overview(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			logger.Error("Failed to build overview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build overview"})
		}
		return
	}

	c.JSON(http.StatusOK, overview)
}
