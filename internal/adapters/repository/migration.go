package repository

import (
	"encoding/json"
	"time"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

// legacyHabit accepts every shape a habit has been stored in. Pointer fields
// tell an absent value apart from a zero one.
type legacyHabit struct {
	ID             *string `json:"id"`
	ServerID       *string `json:"serverId"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Color          *string `json:"color"`
	Icon           *string `json:"icon"`
	Frequency      *string `json:"frequency"`
	TargetDays     *[]int  `json:"targetDays"`
	TargetCount    *int    `json:"targetCount"`
	Streak         *int    `json:"streak"`
	LocalUpdatedAt *string `json:"localUpdatedAt"`
	UpdatedAt      *string `json:"updatedAt"`
	SyncedAt       *string `json:"syncedAt"`
	CreatedAt      *string `json:"createdAt"`
	DeletedAt      *string `json:"deletedAt"`
	SyncStatus     *string `json:"syncStatus"`
}

type legacyCompletion struct {
	ID             *string `json:"id"`
	HabitID        *string `json:"habitId"`
	Date           *string `json:"date"`
	Count          *int    `json:"count"`
	Note           *string `json:"note"`
	ServerID       *string `json:"serverId"`
	LocalUpdatedAt *string `json:"localUpdatedAt"`
	SyncedAt       *string `json:"syncedAt"`
	CreatedAt      *string `json:"createdAt"`
	DeletedAt      *string `json:"deletedAt"`
	SyncStatus     *string `json:"syncStatus"`
}

// MigrateHabit normalizes a stored habit of any past schema into the current
// shape. It never fails: fields that are missing or of the wrong type take
// their defaults, and a value that is not an object yields an all-default
// record. Migrating an already current record returns it unchanged.
func MigrateHabit(raw json.RawMessage, now time.Time) *domain.Habit {
	var h legacyHabit
	// Type errors leave the offending field nil and the rest populated.
	_ = json.Unmarshal(raw, &h)

	now = now.UTC()
	createdAt := firstTime(now, h.CreatedAt)

	freq := domain.Frequency(str(h.Frequency))
	if !freq.Valid() {
		freq = domain.FrequencyDaily
	}

	days := domain.AllWeekdays()
	if h.TargetDays != nil {
		days = append([]int{}, (*h.TargetDays)...)
	}

	streak := 0
	if h.Streak != nil && *h.Streak > 0 {
		streak = *h.Streak
	}

	return &domain.Habit{
		ID:             str(h.ID),
		ServerID:       str(h.ServerID),
		Name:           str(h.Name),
		Description:    str(h.Description),
		Color:          strOr(h.Color, domain.DefaultColor),
		Icon:           strOr(h.Icon, domain.DefaultIcon),
		Frequency:      freq,
		TargetDays:     days,
		TargetCount:    h.TargetCount,
		Streak:         streak,
		LocalUpdatedAt: firstTime(now, h.LocalUpdatedAt, h.UpdatedAt, h.CreatedAt),
		SyncedAt:       optTime(h.SyncedAt),
		CreatedAt:      createdAt,
		DeletedAt:      optTime(h.DeletedAt),
		SyncStatus:     syncStatus(h.SyncStatus),
	}
}

// MigrateCompletion is the completion counterpart of MigrateHabit. A missing
// or non-positive count becomes 1: a stored check-in always means at least one
// completion that day.
func MigrateCompletion(raw json.RawMessage, now time.Time) *domain.Completion {
	var c legacyCompletion
	_ = json.Unmarshal(raw, &c)

	now = now.UTC()

	count := 1
	if c.Count != nil && *c.Count > 0 {
		count = *c.Count
	}

	return &domain.Completion{
		ID:             str(c.ID),
		HabitID:        str(c.HabitID),
		Date:           str(c.Date),
		Count:          count,
		Note:           str(c.Note),
		ServerID:       str(c.ServerID),
		LocalUpdatedAt: firstTime(now, c.LocalUpdatedAt, c.CreatedAt),
		SyncedAt:       optTime(c.SyncedAt),
		CreatedAt:      firstTime(now, c.CreatedAt),
		DeletedAt:      optTime(c.DeletedAt),
		SyncStatus:     syncStatus(c.SyncStatus),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func parseTime(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// firstTime returns the first candidate that parses, or fallback.
func firstTime(fallback time.Time, candidates ...*string) time.Time {
	for _, c := range candidates {
		if t, ok := parseTime(c); ok {
			return t
		}
	}
	return fallback
}

func optTime(s *string) *time.Time {
	t, ok := parseTime(s)
	if !ok {
		return nil
	}
	return &t
}

func syncStatus(s *string) domain.SyncStatus {
	if s != nil && domain.SyncStatus(*s) == domain.SyncStatusSynced {
		return domain.SyncStatusSynced
	}
	return domain.SyncStatusPending
}
