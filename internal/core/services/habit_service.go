package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

type HabitService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	listener    domain.ChangeListener
	now         domain.Clock
	log         *zap.Logger

	// writeMu serializes multi-step mutations so concurrent callers cannot
	// interleave their whole-collection read-modify-write cycles.
	writeMu sync.Mutex
}

type HabitServiceOption func(*HabitService)

func WithClock(now domain.Clock) HabitServiceOption {
	return func(s *HabitService) {
		s.now = now
	}
}

func WithChangeListener(l domain.ChangeListener) HabitServiceOption {
	return func(s *HabitService) {
		s.listener = l
	}
}

func WithLogger(log *zap.Logger) HabitServiceOption {
	return func(s *HabitService) {
		s.log = log
	}
}

func NewHabitService(habits domain.HabitRepository, completions domain.CompletionRepository, opts ...HabitServiceOption) *HabitService {
	s := &HabitService{
		habits:      habits,
		completions: completions,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("component", "habit_service"))
	return s
}

// SetChangeListener wires the listener after construction, for listeners
// that themselves depend on the service's repositories.
func (s *HabitService) SetChangeListener(l domain.ChangeListener) {
	s.listener = l
}

type CreateHabitInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Frequency   domain.Frequency
	TargetDays  []int
	TargetCount *int
}

// UpdateHabitInput carries a partial update: nil fields keep their value.
type UpdateHabitInput struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Frequency   *domain.Frequency
	TargetDays  []int
	TargetCount *int
}

func (s *HabitService) changed(ctx context.Context) {
	if s.listener != nil {
		s.listener.OnLocalChange(ctx)
	}
}

func (s *HabitService) GetAllHabits(ctx context.Context) ([]*domain.Habit, error) {
	all, err := s.habits.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	live := make([]*domain.Habit, 0, len(all))
	for _, h := range all {
		if !h.IsDeleted() {
			live = append(live, h)
		}
	}
	return live, nil
}

func (s *HabitService) GetHabitByID(ctx context.Context, id string) (*domain.Habit, error) {
	return s.habits.GetByID(ctx, id)
}

func (s *HabitService) CreateHabit(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(domain.NewHabitParams{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		Frequency:   input.Frequency,
		TargetDays:  input.TargetDays,
		TargetCount: input.TargetCount,
	}, s.now())
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.habits.Save(ctx, habit); err != nil {
		return nil, err
	}

	s.changed(ctx)
	return habit, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, id string, input UpdateHabitInput) (*domain.Habit, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	habit, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrHabitNameEmpty
		}
		habit.Name = name
	}
	if input.Description != nil {
		habit.Description = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		habit.Color = *input.Color
	}
	if input.Icon != nil {
		habit.Icon = *input.Icon
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, domain.ErrInvalidFrequency
		}
		habit.Frequency = *input.Frequency
	}
	if input.TargetDays != nil {
		days, err := domain.NormalizeWeekdays(input.TargetDays)
		if err != nil {
			return nil, err
		}
		habit.TargetDays = days
	}
	if input.TargetCount != nil {
		if *input.TargetCount < 0 {
			return nil, domain.ErrInvalidTarget
		}
		habit.TargetCount = input.TargetCount
	}

	habit.Touch(s.now())

	if err := s.habits.Save(ctx, habit); err != nil {
		return nil, err
	}

	s.changed(ctx)
	return habit, nil
}

// DeleteHabit removes a habit and all its completions. Completions go first:
// if the second write fails, what is left behind are orphaned completions
// rather than a habit whose history vanished.
func (s *HabitService) DeleteHabit(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.habits.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.completions.DeleteByHabitID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete completions of habit %s: %w", id, err)
	}

	if err := s.habits.Delete(ctx, id); err != nil {
		s.log.Error("habit delete failed after its completions were removed",
			zap.String("habit_id", id), zap.Error(err))
		return err
	}

	s.changed(ctx)
	return nil
}

func (s *HabitService) GetCompletionsForHabit(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	return s.completions.GetByHabitID(ctx, habitID)
}

func (s *HabitService) GetCompletionForDate(ctx context.Context, habitID, date string) (*domain.Completion, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	return s.completions.GetByDate(ctx, habitID, date)
}

// GetCompletionsForDate lists the check-ins of every habit on date.
func (s *HabitService) GetCompletionsForDate(ctx context.Context, date string) ([]*domain.Completion, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	return s.completions.ListByDate(ctx, date)
}

// AddCompletion records a check-in. A second check-in on the same date adds
// to the existing record's count instead of creating another record. A count
// of zero means one. The habit's streak is then recomputed.
func (s *HabitService) AddCompletion(ctx context.Context, habitID, date string, count int, note string) (*domain.Completion, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %q", err, date)
	}
	if count == 0 {
		count = 1
	}
	if count < 0 {
		return nil, domain.ErrInvalidCount
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	completion, err := s.completions.GetByDate(ctx, habitID, date)
	switch {
	case err == nil:
		if err := completion.Increment(count, note, now); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrCompletionNotFound):
		completion, err = domain.NewCompletion(habitID, date, count, note, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.completions.Save(ctx, completion); err != nil {
		return nil, err
	}

	if err := s.refreshStreak(ctx, habit, now); err != nil {
		return nil, err
	}

	s.changed(ctx)
	return completion, nil
}

// RemoveCompletion undoes the check-in of habitID on date and recomputes the
// streak.
func (s *HabitService) RemoveCompletion(ctx context.Context, habitID, date string) error {
	if _, err := domain.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %q", err, date)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	completion, err := s.completions.GetByDate(ctx, habitID, date)
	if err != nil {
		return err
	}

	if err := s.completions.Delete(ctx, completion.ID); err != nil {
		return err
	}

	if err := s.refreshStreak(ctx, habit, s.now()); err != nil {
		return err
	}

	s.changed(ctx)
	return nil
}

// CalculateStreak counts consecutive calendar days ending at referenceDate on
// which the habit has a completion.
func (s *HabitService) CalculateStreak(ctx context.Context, habitID, referenceDate string) (int, error) {
	ref, err := domain.ParseDate(referenceDate)
	if err != nil {
		return 0, err
	}

	completions, err := s.completions.GetByHabitID(ctx, habitID)
	if err != nil {
		return 0, err
	}

	return Streak(completionDates(completions), ref), nil
}

// refreshStreak stores the streak ending at the habit's most recent
// completion. When check-ins are written in date order that is the date just
// written; a back-dated check-in leaves the current run untouched.
func (s *HabitService) refreshStreak(ctx context.Context, habit *domain.Habit, now time.Time) error {
	completions, err := s.completions.GetByHabitID(ctx, habit.ID)
	if err != nil {
		return err
	}

	streak := 0
	dates := completionDates(completions)
	if latest, ok := latestDate(dates); ok {
		streak = Streak(dates, latest)
	}

	habit.Streak = streak
	habit.Touch(now)

	if err := s.habits.Save(ctx, habit); err != nil {
		return fmt.Errorf("failed to store streak of habit %s: %w", habit.ID, err)
	}

	s.log.Debug("streak updated", zap.String("habit_id", habit.ID), zap.Int("streak", streak))
	return nil
}

// PendingRecords returns every habit and completion with local changes not
// yet reconciled with a server, soft-deleted records included.
func (s *HabitService) PendingRecords(ctx context.Context) ([]*domain.Habit, []*domain.Completion, error) {
	habits, err := s.habits.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	completions, err := s.completions.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	var pendingHabits []*domain.Habit
	for _, h := range habits {
		if h.SyncStatus == domain.SyncStatusPending {
			pendingHabits = append(pendingHabits, h)
		}
	}

	var pendingCompletions []*domain.Completion
	for _, c := range completions {
		if c.SyncStatus == domain.SyncStatusPending {
			pendingCompletions = append(pendingCompletions, c)
		}
	}

	return pendingHabits, pendingCompletions, nil
}

// MarkHabitSynced is the hook a sync implementation calls once the server
// holds the habit. It is not a local change: LocalUpdatedAt stays as is.
func (s *HabitService) MarkHabitSynced(ctx context.Context, id, serverID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.habits.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, h := range all {
		if h.ID == id {
			h.MarkSynced(serverID, s.now())
			return s.habits.Save(ctx, h)
		}
	}
	return domain.ErrHabitNotFound
}

func (s *HabitService) MarkCompletionSynced(ctx context.Context, id, serverID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.completions.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.ID == id {
			c.MarkSynced(serverID, s.now())
			return s.completions.Save(ctx, c)
		}
	}
	return domain.ErrCompletionNotFound
}
