package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

type SyncHandler struct {
	svc *services.SyncService
	log *zap.Logger
}

func NewSyncHandler(svc *services.SyncService, log *zap.Logger) *SyncHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncHandler{
		svc: svc,
		log: log.With(zap.String("component", "http")),
	}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	sync := router.Group("/sync")
	{
		sync.GET("/status", h.Status)
		sync.POST("", h.Sync)
	}
}

func (h *SyncHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	meta, err := h.svc.Metadata(ctx)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"online":   h.svc.IsOnline(ctx),
		"metadata": meta,
	})
}

func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.svc.Sync(c.Request.Context())
	if errors.Is(err, domain.ErrOffline) {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
