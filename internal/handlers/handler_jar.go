package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/middleware"
	"github.com/sixjars/six_jars_app/internal/utils/budgeting"
)

// jarHandler handles HTTP requests related to jars.
type jarHandler struct {
	jarService portssvc.JarSvcFacade
}

func newJarHandler(js portssvc.JarSvcFacade) *jarHandler {
	return &jarHandler{jarService: js}
}

// registerJarRoutes registers routes related to jars.
func registerJarRoutes(rg *gin.RouterGroup, jarService portssvc.JarSvcFacade) {
	h := newJarHandler(jarService)

	jars := rg.Group("/jars")
	{
		jars.POST("", h.createJar)
		jars.GET("", h.listJars)
		jars.POST("/template", h.createFromTemplate)
		jars.GET("/remaining-percentage", h.remainingPercentage)
		jars.GET("/:id", h.getJar)
		jars.PUT("/:id", h.updateJar)
		jars.DELETE("/:id", h.deleteJar)
		jars.POST("/:id/deactivate", h.deactivateJar)
	}
}

// createJar godoc
// @Summary Create a new jar
// @Description Creates a jar allocated a percentage of monthly income
// @Tags jars
// @Accept json
// @Produce json
// @Param jar body dto.CreateJarRequest true "Jar details"
// @Success 201 {object} dto.JarResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Percentage budget exceeded"
// @Failure 500 {object} map[string]string "Failed to create jar"
// @Security BearerAuth
// @Router /finance/jars [post]
func (h *jarHandler) createJar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateJarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJar", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	jar, err := h.jarService.CreateJar(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetExceeded) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create jar", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create jar"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToJarResponse(jar))
}

// listJars godoc
// @Summary List jars
// @Description Lists the user's jars with their spending status
// @Tags jars
// @Produce json
// @Param includeInactive query bool false "Include deactivated jars"
// @Success 200 {object} dto.ListJarsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list jars"
// @Security BearerAuth
// @Router /finance/jars [get]
func (h *jarHandler) listJars(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListJarsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	jars, err := h.jarService.ListJars(c.Request.Context(), userID, params.IncludeInactive)
	if err != nil {
		logger.Error("Failed to list jars", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jars"})
		return
	}

	resp := dto.ListJarsResponse{Jars: make([]dto.JarResponse, len(jars))}
	for i := range jars {
		jr := dto.ToJarResponse(&jars[i])
		status := budgeting.ClassifyJar(jars[i].CurrentAmount, jars[i].TargetAmount)
		jr.Status = &status
		resp.Jars[i] = jr
	}
	c.JSON(http.StatusOK, resp)
}

// createFromTemplate godoc
// @Summary Create the six-jar starter set
// @Description Atomically creates the fixed six-jar template summing to 100%
// @Tags jars
// @Produce json
// @Success 201 {object} dto.ListJarsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Percentage budget exceeded"
// @Failure 500 {object} map[string]string "Failed to create jars"
// @Security BearerAuth
// @Router /finance/jars/template [post]
func (h *jarHandler) createFromTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jars, err := h.jarService.CreateJarsFromTemplate(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetExceeded) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create template jars", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create jars"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ListJarsResponse{Jars: dto.ToJarResponses(jars)})
}

// remainingPercentage godoc
// @Summary Get the unallocated budget share
// @Tags jars
// @Produce json
// @Success 200 {object} dto.RemainingPercentageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute remaining percentage"
// @Security BearerAuth
// @Router /finance/jars/remaining-percentage [get]
func (h *jarHandler) remainingPercentage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	remaining, err := h.jarService.RemainingPercentage(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to compute remaining percentage", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute remaining percentage"})
		return
	}

	c.JSON(http.StatusOK, dto.RemainingPercentageResponse{RemainingPercentage: remaining})
}

// getJar godoc
// @Summary Get a jar by ID
// @Tags jars
// @Produce json
// @Param id path string true "Jar ID"
// @Success 200 {object} dto.JarResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Jar not found"
// @Failure 500 {object} map[string]string "Failed to retrieve jar"
// @Security BearerAuth
// @Router /finance/jars/{id} [get]
func (h *jarHandler) getJar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jar, err := h.jarService.GetJarByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jar not found"})
		} else {
			logger.Error("Failed to get jar", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jar"})
		}
		return
	}

	resp := dto.ToJarResponse(jar)
	status := budgeting.ClassifyJar(jar.CurrentAmount, jar.TargetAmount)
	resp.Status = &status
	c.JSON(http.StatusOK, resp)
}

// updateJar godoc
// @Summary Update a jar
// @Description Applies a partial update, re-validating the percentage budget when the percentage changes
// @Tags jars
// @Accept json
// @Produce json
// @Param id path string true "Jar ID"
// @Param jar body dto.UpdateJarRequest true "Jar fields to update"
// @Success 200 {object} dto.JarResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Jar not found"
// @Failure 422 {object} map[string]string "Percentage budget exceeded"
// @Failure 500 {object} map[string]string "Failed to update jar"
// @Security BearerAuth
// @Router /finance/jars/{id} [put]
func (h *jarHandler) updateJar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateJarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJar", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	jar, err := h.jarService.UpdateJar(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jar not found"})
		} else if errors.Is(err, apperrors.ErrBudgetExceeded) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update jar", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update jar"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJarResponse(jar))
}

// deleteJar godoc
// @Summary Delete a jar
// @Description Hard-deletes a jar without transactions; jars with history must be deactivated instead
// @Tags jars
// @Produce json
// @Param id path string true "Jar ID"
// @Success 204 "Jar deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Jar not found"
// @Failure 409 {object} map[string]string "Jar still has transactions"
// @Failure 500 {object} map[string]string "Failed to delete jar"
// @Security BearerAuth
// @Router /finance/jars/{id} [delete]
func (h *jarHandler) deleteJar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.jarService.DeleteJar(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jar not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to delete jar", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete jar"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// deactivateJar godoc
// @Summary Deactivate a jar
// @Description Soft-deletes a jar, freeing its percentage budget while keeping history
// @Tags jars
// @Produce json
// @Param id path string true "Jar ID"
// @Success 204 "Jar deactivated"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Jar not found"
// @Failure 500 {object} map[string]string "Failed to deactivate jar"
// @Security BearerAuth
// @Router /finance/jars/{id}/deactivate [post]
func (h *jarHandler) deactivateJar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.jarService.DeactivateJar(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Jar not found"})
		} else {
			logger.Error("Failed to deactivate jar", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate jar"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
