package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

var _ domain.HabitRepository = (*HabitRepository)(nil)

// HabitRepository keeps all habits as one JSON array under KeyHabits. Every
// write is a full read-modify-write of that array, serialized by mu.
type HabitRepository struct {
	raw   *kv.Document[[]json.RawMessage]
	typed *kv.Document[[]*domain.Habit]
	now   domain.Clock

	mu sync.Mutex
}

func NewHabitRepository(store kv.Store, log *zap.Logger) *HabitRepository {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "habits"))

	return &HabitRepository{
		raw:   kv.NewDocument[[]json.RawMessage](store, KeyHabits, log),
		typed: kv.NewDocument[[]*domain.Habit](store, KeyHabits, log),
		now:   time.Now,
	}
}

func (r *HabitRepository) load(ctx context.Context) ([]*domain.Habit, error) {
	raw, _, err := r.raw.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	habits := make([]*domain.Habit, 0, len(raw))
	for _, item := range raw {
		habits = append(habits, MigrateHabit(item, now))
	}
	return habits, nil
}

func (r *HabitRepository) GetAll(ctx context.Context) ([]*domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *HabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, h := range all {
		if h.ID == id && !h.IsDeleted() {
			return h, nil
		}
	}
	return nil, domain.ErrHabitNotFound
}

func (r *HabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, h := range all {
		if h.ID == habit.ID {
			all[i] = habit
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, habit)
	}

	if err := r.typed.Set(ctx, all); err != nil {
		return fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}
	return nil
}

func (r *HabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := all[:0]
	for _, h := range all {
		if h.ID != id {
			kept = append(kept, h)
		}
	}

	if err := r.typed.Set(ctx, kept); err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	return nil
}
