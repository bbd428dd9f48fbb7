package domain

import (
	"context"
	"time"
)

type HabitRepository interface {
	// GetAll returns every stored habit, soft-deleted ones included, after
	// normalizing each record to the current shape.
	GetAll(ctx context.Context) ([]*Habit, error)

	// GetByID retrieves a live habit by id. Returns ErrHabitNotFound for an
	// unknown or soft-deleted id.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// Save upserts by id: replaces the record in place or appends it.
	Save(ctx context.Context, habit *Habit) error

	// Delete permanently removes the habit. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
}

type CompletionRepository interface {
	GetAll(ctx context.Context) ([]*Completion, error)

	// GetByHabitID returns the live completions of a habit, newest date first.
	GetByHabitID(ctx context.Context, habitID string) ([]*Completion, error)

	// GetByDate returns the live completion for the (habitID, date) pair or
	// ErrCompletionNotFound.
	GetByDate(ctx context.Context, habitID, date string) (*Completion, error)

	// ListByDate returns the live completions of every habit on date.
	ListByDate(ctx context.Context, date string) ([]*Completion, error)

	Save(ctx context.Context, completion *Completion) error

	// Delete permanently removes a single completion by id.
	Delete(ctx context.Context, id string) error

	// DeleteByHabitID permanently removes every completion of a habit.
	DeleteByHabitID(ctx context.Context, habitID string) error
}

type SyncMetadataRepository interface {
	Get(ctx context.Context) (SyncMetadata, error)
	Set(ctx context.Context, meta SyncMetadata) error
}

// Reachability is the network signal consumed by the sync stub.
type Reachability interface {
	IsOnline(ctx context.Context) bool
}

// ChangeListener is notified after every local write.
type ChangeListener interface {
	OnLocalChange(ctx context.Context)
}

// SyncRemote is the future server side of synchronization. Nothing in this
// module implements it.
type SyncRemote interface {
	Push(ctx context.Context, habits []*Habit, completions []*Completion) error
	Pull(ctx context.Context, cursor string) (next string, err error)
}

// Clock returns the current instant.
type Clock func() time.Time
