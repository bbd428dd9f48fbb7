package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-local/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/network"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-local/internal/config"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
	"github.com/comitanigiacomo/kanso-local/internal/core/workers"
)

type app struct {
	router  *gin.Engine
	habits  *services.HabitService
	sync    *services.SyncService
	worker  *workers.SyncWorker
	watcher *network.Watcher
}

func buildApp(store kv.Store, cfg config.Config, log *zap.Logger, startTime time.Time) *app {
	habitRepo := repository.NewHabitRepository(store, log)
	completionRepo := repository.NewCompletionRepository(store, log)
	metaRepo := repository.NewSyncMetadataRepository(store, log)

	habitService := services.NewHabitService(habitRepo, completionRepo, services.WithLogger(log))
	insightsService := services.NewInsightsService(habitRepo, completionRepo, nil)

	a := &app{habits: habitService}

	var reach domain.Reachability = network.Offline{}
	if cfg.SyncProbeAddr != "" {
		probe := network.NewDialProbe(cfg.SyncProbeAddr, 3*time.Second)
		a.watcher = network.NewWatcher(probe, cfg.SyncProbeInterval, func(ctx context.Context) {
			a.worker.Enqueue("reconnect")
		}, log)
		reach = a.watcher
	}

	a.sync = services.NewSyncService(services.SyncDependencies{
		Store:        habitService,
		Metadata:     metaRepo,
		Reachability: reach,
		Logger:       log,
	})
	habitService.SetChangeListener(a.sync)

	a.worker = workers.NewSyncWorker(a.sync, log)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService, log),
		CompletionHandler: adapterHTTP.NewCompletionHandler(habitService, log),
		InsightsHandler:   adapterHTTP.NewInsightsHandler(insightsService, log),
		SyncHandler:       adapterHTTP.NewSyncHandler(a.sync, log),
		Store:             store,
		Logger:            log,
		StartTime:         startTime,
	})

	return a
}

// start launches the background sync machinery. Both goroutines end with ctx.
func (a *app) start(ctx context.Context) {
	a.worker.Start(ctx)
	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}
}
