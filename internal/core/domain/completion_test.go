package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-03-13", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"2024-3-13", true},
		{"2024-03-13T00:00:00Z", true},
		{"13/03/2024", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := domain.ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, domain.FormatDate(d))
		})
	}
}

func TestNewCompletion(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, err := domain.NewCompletion("h1", "2024-03-13", 2, "morning", now)

		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "h1", c.HabitID)
		assert.Equal(t, "2024-03-13", c.Date)
		assert.Equal(t, 2, c.Count)
		assert.Equal(t, "morning", c.Note)
		assert.Equal(t, domain.SyncStatusPending, c.SyncStatus)
		assert.Equal(t, now.UTC(), c.CreatedAt)
		assert.Equal(t, c.CreatedAt, c.LocalUpdatedAt)
	})

	t.Run("Error: Bad date", func(t *testing.T) {
		_, err := domain.NewCompletion("h1", "yesterday", 1, "", now)
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Error: Zero count", func(t *testing.T) {
		_, err := domain.NewCompletion("h1", "2024-03-13", 0, "", now)
		assert.ErrorIs(t, err, domain.ErrInvalidCount)
	})
}

func TestCompletion_Increment(t *testing.T) {
	c, err := domain.NewCompletion("h1", "2024-03-13", 1, "first", now)
	require.NoError(t, err)
	c.MarkSynced("srv", now)

	later := now.Add(time.Minute)
	require.NoError(t, c.Increment(2, "", later))

	assert.Equal(t, 3, c.Count)
	assert.Equal(t, "first", c.Note, "empty note keeps the previous one")
	assert.Equal(t, later.UTC(), c.LocalUpdatedAt)
	assert.Equal(t, domain.SyncStatusPending, c.SyncStatus)

	require.NoError(t, c.Increment(1, "second", later))
	assert.Equal(t, "second", c.Note)

	assert.ErrorIs(t, c.Increment(0, "", later), domain.ErrInvalidCount)
	assert.Equal(t, 4, c.Count)
}
