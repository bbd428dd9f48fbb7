package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	ErrInvalidWeekdays  = errors.New("invalid target days (must be 0-6)")
	ErrInvalidFrequency = errors.New("invalid frequency (must be daily, weekly, or custom)")
	ErrInvalidTarget    = errors.New("target count cannot be negative")
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPending SyncStatus = "pending"
)

const (
	DefaultColor = "#2d5a47"
	DefaultIcon  = "✅"
)

// AllWeekdays returns every weekday index, Sunday first.
func AllWeekdays() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}

type Habit struct {
	ID          string    `json:"id"`
	ServerID    string    `json:"serverId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Frequency   Frequency `json:"frequency"`
	TargetDays  []int     `json:"targetDays"`
	TargetCount *int      `json:"targetCount,omitempty"`
	Streak      int       `json:"streak"`

	LocalUpdatedAt time.Time  `json:"localUpdatedAt"`
	SyncedAt       *time.Time `json:"syncedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
	SyncStatus     SyncStatus `json:"syncStatus"`
}

type NewHabitParams struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Frequency   Frequency
	TargetDays  []int
	TargetCount *int
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// NormalizeWeekdays validates, deduplicates and sorts weekday indices.
func NormalizeWeekdays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, ErrInvalidWeekdays
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}

	sort.Ints(out)
	return out, nil
}

func NewHabit(p NewHabitParams, now time.Time) (*Habit, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrHabitNameEmpty
	}

	freq := p.Frequency
	if freq == "" {
		freq = FrequencyDaily
	}
	if !freq.Valid() {
		return nil, ErrInvalidFrequency
	}

	days := p.TargetDays
	if days == nil {
		days = AllWeekdays()
	}
	days, err := NormalizeWeekdays(days)
	if err != nil {
		return nil, err
	}

	if p.TargetCount != nil && *p.TargetCount < 0 {
		return nil, ErrInvalidTarget
	}

	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	icon := p.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	now = now.UTC()

	return &Habit{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    strings.TrimSpace(p.Description),
		Color:          color,
		Icon:           icon,
		Frequency:      freq,
		TargetDays:     days,
		TargetCount:    p.TargetCount,
		Streak:         0,
		CreatedAt:      now,
		LocalUpdatedAt: now,
		SyncStatus:     SyncStatusPending,
	}, nil
}

// Touch stamps a local mutation.
func (h *Habit) Touch(now time.Time) {
	h.LocalUpdatedAt = now.UTC()
	h.SyncStatus = SyncStatusPending
}

// MarkSynced records that the habit matches the server state as of at.
// LocalUpdatedAt is left alone so it keeps pointing at the last local edit.
func (h *Habit) MarkSynced(serverID string, at time.Time) {
	if serverID != "" {
		h.ServerID = serverID
	}
	synced := at.UTC()
	h.SyncedAt = &synced
	h.SyncStatus = SyncStatusSynced
}

func (h *Habit) IsDeleted() bool {
	return h.DeletedAt != nil
}

// IsDueOn reports whether the weekday of date is one of the habit's target days.
func (h *Habit) IsDueOn(date time.Time) bool {
	wd := int(date.Weekday())
	for _, d := range h.TargetDays {
		if d == wd {
			return true
		}
	}
	return false
}
