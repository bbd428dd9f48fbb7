package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
	log *zap.Logger
}

func NewHabitHandler(svc *services.HabitService, log *zap.Logger) *HabitHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HabitHandler{
		svc: svc,
		log: log.With(zap.String("component", "http")),
	}
}

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Frequency   string `json:"frequency"`
	TargetDays  []int  `json:"targetDays"`
	TargetCount *int   `json:"targetCount"`
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	Frequency   *string `json:"frequency"`
	TargetDays  []int   `json:"targetDays"`
	TargetCount *int    `json:"targetCount"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.POST("", h.Create)
		habits.GET("/:id", h.Get)
		habits.PATCH("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

func (h *HabitHandler) List(c *gin.Context) {
	list, err := h.svc.GetAllHabits(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	habit, err := h.svc.GetHabitByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result := domain.ValidateCreateHabit(domain.CreateHabitForm{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": result.Errors})
		return
	}

	habit, err := h.svc.CreateHabit(c.Request.Context(), services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Frequency:   domain.Frequency(req.Frequency),
		TargetDays:  req.TargetDays,
		TargetCount: req.TargetCount,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		TargetDays:  req.TargetDays,
		TargetCount: req.TargetCount,
	}
	if req.Frequency != nil {
		freq := domain.Frequency(*req.Frequency)
		input.Frequency = &freq
	}

	habit, err := h.svc.UpdateHabit(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
