package workers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

type Syncer interface {
	Sync(ctx context.Context) (domain.SyncResult, error)
}

type SyncJob struct {
	Reason string
}

// SyncWorker runs sync attempts one at a time in the background. Jobs are
// queued on a buffered channel and dropped when the queue is full: a queued
// attempt already covers every change made before it runs.
type SyncWorker struct {
	syncer Syncer
	jobs   chan SyncJob
	log    *zap.Logger
	done   chan struct{}
}

func NewSyncWorker(syncer Syncer, log *zap.Logger) *SyncWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncWorker{
		syncer: syncer,
		jobs:   make(chan SyncJob, 8),
		log:    log.With(zap.String("component", "sync_worker")),
		done:   make(chan struct{}),
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		w.log.Info("sync worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("sync worker shutting down")
				return
			}
		}
	}()
}

// Done is closed once the worker goroutine has returned.
func (w *SyncWorker) Done() <-chan struct{} {
	return w.done
}

func (w *SyncWorker) Enqueue(reason string) bool {
	select {
	case w.jobs <- SyncJob{Reason: reason}:
		return true
	default:
		w.log.Warn("sync queue full, dropping job", zap.String("reason", reason))
		return false
	}
}

func (w *SyncWorker) processJob(ctx context.Context, job SyncJob) {
	_, err := w.syncer.Sync(ctx)
	switch {
	case err == nil:
		w.log.Info("sync finished", zap.String("reason", job.Reason))
	case errors.Is(err, domain.ErrOffline):
		w.log.Debug("sync skipped while offline", zap.String("reason", job.Reason))
	default:
		w.log.Error("sync failed", zap.String("reason", job.Reason), zap.Error(err))
	}
}
