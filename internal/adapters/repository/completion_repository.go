package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

var _ domain.CompletionRepository = (*CompletionRepository)(nil)

type CompletionRepository struct {
	raw    *kv.Document[[]json.RawMessage]
	legacy *kv.Document[[]json.RawMessage]
	typed  *kv.Document[[]*domain.Completion]
	log    *zap.Logger
	now    domain.Clock

	mu sync.Mutex
}

func NewCompletionRepository(store kv.Store, log *zap.Logger) *CompletionRepository {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "completions"))

	return &CompletionRepository{
		raw:    kv.NewDocument[[]json.RawMessage](store, KeyCompletions, log),
		legacy: kv.NewDocument[[]json.RawMessage](store, KeyLegacyCheckIns, log),
		typed:  kv.NewDocument[[]*domain.Completion](store, KeyCompletions, log),
		log:    log,
		now:    time.Now,
	}
}

// load reads the completions array. While it is empty, records still living
// under the legacy check-in key are moved over first; once moved the legacy
// key is cleared, so this happens at most once.
func (r *CompletionRepository) load(ctx context.Context) ([]*domain.Completion, error) {
	raw, _, err := r.raw.Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		legacy, ok, err := r.legacy.Get(ctx)
		if err != nil {
			return nil, err
		}
		if ok && len(legacy) > 0 {
			if err := r.raw.Set(ctx, legacy); err != nil {
				return nil, fmt.Errorf("failed to relocate legacy check-ins: %w", err)
			}
			if err := r.legacy.Remove(ctx); err != nil {
				return nil, fmt.Errorf("failed to clear legacy check-ins: %w", err)
			}
			r.log.Info("relocated legacy check-ins", zap.Int("count", len(legacy)))
			raw = legacy
		}
	}

	now := r.now()
	completions := make([]*domain.Completion, 0, len(raw))
	for _, item := range raw {
		completions = append(completions, MigrateCompletion(item, now))
	}
	return completions, nil
}

func (r *CompletionRepository) write(ctx context.Context, all []*domain.Completion) error {
	if err := r.typed.Set(ctx, all); err != nil {
		return fmt.Errorf("failed to save completions: %w", err)
	}
	return nil
}

func (r *CompletionRepository) GetAll(ctx context.Context) ([]*domain.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *CompletionRepository) filter(ctx context.Context, keep func(*domain.Completion) bool) ([]*domain.Completion, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := []*domain.Completion{}
	for _, c := range all {
		if !c.IsDeleted() && keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CompletionRepository) GetByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	list, err := r.filter(ctx, func(c *domain.Completion) bool {
		return c.HabitID == habitID
	})
	if err != nil {
		return nil, err
	}

	// Dates are zero-padded, so string order is calendar order.
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date > list[j].Date
	})
	return list, nil
}

func (r *CompletionRepository) GetByDate(ctx context.Context, habitID, date string) (*domain.Completion, error) {
	list, err := r.filter(ctx, func(c *domain.Completion) bool {
		return c.HabitID == habitID && c.Date == date
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrCompletionNotFound
	}
	return list[0], nil
}

func (r *CompletionRepository) ListByDate(ctx context.Context, date string) ([]*domain.Completion, error) {
	return r.filter(ctx, func(c *domain.Completion) bool {
		return c.Date == date
	})
}

func (r *CompletionRepository) Save(ctx context.Context, completion *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, c := range all {
		if c.ID == completion.ID {
			all[i] = completion
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, completion)
	}

	return r.write(ctx, all)
}

func (r *CompletionRepository) removeWhere(ctx context.Context, drop func(*domain.Completion) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := all[:0]
	for _, c := range all {
		if !drop(c) {
			kept = append(kept, c)
		}
	}

	return r.write(ctx, kept)
}

func (r *CompletionRepository) Delete(ctx context.Context, id string) error {
	return r.removeWhere(ctx, func(c *domain.Completion) bool {
		return c.ID == id
	})
}

func (r *CompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	return r.removeWhere(ctx, func(c *domain.Completion) bool {
		return c.HabitID == habitID
	})
}
