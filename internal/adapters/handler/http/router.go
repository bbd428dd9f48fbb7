package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
)

type RouterDependencies struct {
	HabitHandler      *HabitHandler
	CompletionHandler *CompletionHandler
	InsightsHandler   *InsightsHandler
	SyncHandler       *SyncHandler
	Store             kv.Store
	Logger            *zap.Logger
	StartTime         time.Time
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Debug("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log.With(zap.String("component", "http"))))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		storage := "connected"
		if deps.Store == nil {
			storage = "unreachable"
		} else if _, err := deps.Store.Keys(c.Request.Context()); err != nil {
			storage = "unreachable"
		}

		statusCode := http.StatusOK
		if storage == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"storage": storage,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")

	deps.HabitHandler.RegisterRoutes(apiV1)
	deps.CompletionHandler.RegisterRoutes(apiV1)
	deps.InsightsHandler.RegisterRoutes(apiV1)
	deps.SyncHandler.RegisterRoutes(apiV1)

	return router
}
