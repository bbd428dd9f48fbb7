package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

func handleError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})

	case errors.Is(err, domain.ErrCompletionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "completion not found"})

	case errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrInvalidWeekdays),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrOffline):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "offline"})

	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
