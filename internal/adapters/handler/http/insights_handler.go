package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

const maxInsightWeeks = 104

type InsightsHandler struct {
	svc *services.InsightsService
	log *zap.Logger
}

func NewInsightsHandler(svc *services.InsightsService, log *zap.Logger) *InsightsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InsightsHandler{
		svc: svc,
		log: log.With(zap.String("component", "http")),
	}
}

func (h *InsightsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/insights", h.Weekly)
}

func (h *InsightsHandler) Weekly(c *gin.Context) {
	weeks := services.DefaultInsightWeeks
	if raw := c.Query("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxInsightWeeks {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be a number between 1 and 104"})
			return
		}
		weeks = n
	}

	insights, err := h.svc.GetWeeklyInsights(c.Request.Context(), c.Param("id"), weeks)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}
