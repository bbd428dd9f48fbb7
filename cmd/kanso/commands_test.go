package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

func setupCLI(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := out
	out = buf
	t.Cleanup(func() { out = prev })

	return newContext(context.Background(), kv.NewMemoryStore(), zap.NewNop()), buf
}

func TestHabitCommands(t *testing.T) {
	ctx, buf := setupCLI(t)

	require.NoError(t, (&HabitAddCmd{Name: "Read", Frequency: "daily"}).Run(ctx))
	assert.Contains(t, buf.String(), "Added habit: Read")

	buf.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Contains(t, buf.String(), "Read")
	assert.Contains(t, buf.String(), "pending")

	name := "Read more"
	require.NoError(t, (&HabitEditCmd{Habit: "read", Name: &name}).Run(ctx))

	habits, err := ctx.Habits.GetAllHabits(ctx.Ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read more", habits[0].Name)

	require.NoError(t, (&HabitRemoveCmd{Habit: habits[0].ID}).Run(ctx))

	buf.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Equal(t, "No habits found.\n", buf.String())
}

func TestCheckAndUncheck(t *testing.T) {
	ctx, buf := setupCLI(t)

	require.NoError(t, (&HabitAddCmd{Name: "Run", Frequency: "daily"}).Run(ctx))

	require.NoError(t, (&CheckCmd{Habit: "Run", Date: "2024-03-12", Count: 1}).Run(ctx))
	require.NoError(t, (&CheckCmd{Habit: "Run", Date: "2024-03-13", Count: 2, Note: "easy"}).Run(ctx))
	assert.Contains(t, buf.String(), "streak 2")

	require.NoError(t, (&UncheckCmd{Habit: "Run", Date: "2024-03-13"}).Run(ctx))

	habits, err := ctx.Habits.GetAllHabits(ctx.Ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 1, habits[0].Streak)

	err = (&UncheckCmd{Habit: "Run", Date: "2024-03-13"}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrCompletionNotFound)

	err = (&CheckCmd{Habit: "Run", Date: "13/03/2024", Count: 1}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestUnknownHabit(t *testing.T) {
	ctx, _ := setupCLI(t)

	err := (&CheckCmd{Habit: "nope", Count: 1}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
}

func TestInsightsAndKeys(t *testing.T) {
	ctx, buf := setupCLI(t)

	require.NoError(t, (&HabitAddCmd{Name: "Stretch"}).Run(ctx))
	require.NoError(t, (&CheckCmd{Habit: "Stretch", Count: 1}).Run(ctx))

	buf.Reset()
	require.NoError(t, (&InsightsCmd{Habit: "Stretch", Weeks: 3}).Run(ctx))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 4)

	buf.Reset()
	require.NoError(t, (&KeysCmd{}).Run(ctx))
	assert.Contains(t, buf.String(), "@habit_tracker/habits")
	assert.Contains(t, buf.String(), "@habit_tracker/completions")
}
