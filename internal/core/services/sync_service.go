package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

// SyncStore is the part of the habit store the sync stub works against.
type SyncStore interface {
	PendingRecords(ctx context.Context) ([]*domain.Habit, []*domain.Completion, error)
	MarkHabitSynced(ctx context.Context, id, serverID string) error
	MarkCompletionSynced(ctx context.Context, id, serverID string) error
}

type SyncDependencies struct {
	Store        SyncStore
	Metadata     domain.SyncMetadataRepository
	Reachability domain.Reachability
	// Remote is optional. Without one, Sync only checks connectivity.
	Remote domain.SyncRemote
	Clock  domain.Clock
	Logger *zap.Logger
}

// SyncService is the placeholder for future server synchronization. It keeps
// the sync bookkeeping current but defines no protocol of its own.
type SyncService struct {
	store  SyncStore
	meta   domain.SyncMetadataRepository
	reach  domain.Reachability
	remote domain.SyncRemote
	now    domain.Clock
	log    *zap.Logger
}

func NewSyncService(deps SyncDependencies) *SyncService {
	s := &SyncService{
		store:  deps.Store,
		meta:   deps.Metadata,
		reach:  deps.Reachability,
		remote: deps.Remote,
		now:    deps.Clock,
		log:    deps.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("component", "sync"))
	return s
}

func (s *SyncService) IsOnline(ctx context.Context) bool {
	if s.reach == nil {
		return false
	}
	return s.reach.IsOnline(ctx)
}

func (s *SyncService) Metadata(ctx context.Context) (domain.SyncMetadata, error) {
	return s.meta.Get(ctx)
}

// RefreshPending recounts pending records into the sync metadata.
func (s *SyncService) RefreshPending(ctx context.Context) (domain.SyncMetadata, error) {
	habits, completions, err := s.store.PendingRecords(ctx)
	if err != nil {
		return domain.SyncMetadata{}, err
	}

	meta, err := s.meta.Get(ctx)
	if err != nil {
		return domain.SyncMetadata{}, err
	}

	meta.PendingCount = len(habits) + len(completions)
	if err := s.meta.Set(ctx, meta); err != nil {
		return domain.SyncMetadata{}, err
	}
	return meta, nil
}

// OnLocalChange implements domain.ChangeListener.
func (s *SyncService) OnLocalChange(ctx context.Context) {
	if _, err := s.RefreshPending(ctx); err != nil {
		s.log.Warn("failed to refresh pending count", zap.Error(err))
	}
}

// Sync fails with domain.ErrOffline when there is no connectivity. Otherwise
// it hands pending records to the remote, if one is configured, and marks
// them synced once accepted.
func (s *SyncService) Sync(ctx context.Context) (domain.SyncResult, error) {
	if !s.IsOnline(ctx) {
		return domain.SyncResult{Success: false, Error: "Offline"}, domain.ErrOffline
	}

	if s.remote == nil {
		return domain.SyncResult{Success: true}, nil
	}

	habits, completions, err := s.store.PendingRecords(ctx)
	if err != nil {
		return domain.SyncResult{Success: false, Error: err.Error()}, err
	}

	if err := s.remote.Push(ctx, habits, completions); err != nil {
		return domain.SyncResult{Success: false, Error: err.Error()}, fmt.Errorf("push: %w", err)
	}

	for _, h := range habits {
		if err := s.store.MarkHabitSynced(ctx, h.ID, h.ServerID); err != nil {
			return domain.SyncResult{Success: false, Error: err.Error()}, err
		}
	}
	for _, c := range completions {
		if err := s.store.MarkCompletionSynced(ctx, c.ID, c.ServerID); err != nil {
			return domain.SyncResult{Success: false, Error: err.Error()}, err
		}
	}

	meta, err := s.meta.Get(ctx)
	if err != nil {
		return domain.SyncResult{Success: false, Error: err.Error()}, err
	}

	next, err := s.remote.Pull(ctx, meta.SyncCursor)
	if err != nil {
		return domain.SyncResult{Success: false, Error: err.Error()}, fmt.Errorf("pull: %w", err)
	}

	now := s.now().UTC()
	meta.LastSyncAt = &now
	meta.SyncCursor = next
	meta.PendingCount = 0
	if err := s.meta.Set(ctx, meta); err != nil {
		return domain.SyncResult{Success: false, Error: err.Error()}, err
	}

	s.log.Info("sync completed",
		zap.Int("habits", len(habits)), zap.Int("completions", len(completions)))
	return domain.SyncResult{Success: true}, nil
}
