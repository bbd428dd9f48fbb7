package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

type CompletionHandler struct {
	svc *services.HabitService
	log *zap.Logger
}

func NewCompletionHandler(svc *services.HabitService, log *zap.Logger) *CompletionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompletionHandler{
		svc: svc,
		log: log.With(zap.String("component", "http")),
	}
}

type addCompletionRequest struct {
	Date  string `json:"date" binding:"required"`
	Count int    `json:"count"`
	Note  string `json:"note"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/completions", h.ListByDate)

	completions := router.Group("/habits/:id/completions")
	{
		completions.GET("", h.ListByHabit)
		completions.POST("", h.Add)
		completions.GET("/:date", h.Get)
		completions.DELETE("/:date", h.Remove)
	}
}

func (h *CompletionHandler) ListByHabit(c *gin.Context) {
	list, err := h.svc.GetCompletionsForHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CompletionHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	list, err := h.svc.GetCompletionsForDate(c.Request.Context(), date)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CompletionHandler) Add(c *gin.Context) {
	var req addCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	completion, err := h.svc.AddCompletion(c.Request.Context(), c.Param("id"), req.Date, req.Count, req.Note)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

func (h *CompletionHandler) Get(c *gin.Context) {
	completion, err := h.svc.GetCompletionForDate(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

func (h *CompletionHandler) Remove(c *gin.Context) {
	if err := h.svc.RemoveCompletion(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
