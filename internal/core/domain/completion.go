package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCompletionNotFound = errors.New("habit completion not found")
	ErrInvalidDate        = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrInvalidCount       = errors.New("completion count must be at least 1")
)

// DateLayout is the zero-padded calendar date format used for completion
// dates. Lexicographic order of such strings is chronological order.
const DateLayout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Completion struct {
	ID      string `json:"id"`
	HabitID string `json:"habitId"`
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Note    string `json:"note,omitempty"`

	ServerID       string     `json:"serverId,omitempty"`
	LocalUpdatedAt time.Time  `json:"localUpdatedAt"`
	SyncedAt       *time.Time `json:"syncedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
	SyncStatus     SyncStatus `json:"syncStatus"`
}

// ParseDate checks the strict YYYY-MM-DD shape and that the date exists.
func ParseDate(s string) (time.Time, error) {
	if !dateRegex.MatchString(s) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func NewCompletion(habitID, date string, count int, note string, now time.Time) (*Completion, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, ErrInvalidCount
	}

	now = now.UTC()

	return &Completion{
		ID:             uuid.NewString(),
		HabitID:        habitID,
		Date:           date,
		Count:          count,
		Note:           note,
		CreatedAt:      now,
		LocalUpdatedAt: now,
		SyncStatus:     SyncStatusPending,
	}, nil
}

// Increment records a repeated check-in on the same day. An empty note keeps
// the previous one.
func (c *Completion) Increment(count int, note string, now time.Time) error {
	if count < 1 {
		return ErrInvalidCount
	}
	c.Count += count
	if note != "" {
		c.Note = note
	}
	c.Touch(now)
	return nil
}

func (c *Completion) Touch(now time.Time) {
	c.LocalUpdatedAt = now.UTC()
	c.SyncStatus = SyncStatusPending
}

func (c *Completion) MarkSynced(serverID string, at time.Time) {
	if serverID != "" {
		c.ServerID = serverID
	}
	synced := at.UTC()
	c.SyncedAt = &synced
	c.SyncStatus = SyncStatusSynced
}

func (c *Completion) IsDeleted() bool {
	return c.DeletedAt != nil
}
