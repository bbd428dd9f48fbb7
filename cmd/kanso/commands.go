package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

var out io.Writer = os.Stdout

type HabitCmd struct {
	List HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Add  HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Rm   HabitRemoveCmd `cmd:"" help:"Delete a habit and all its check-ins."`
}

// resolveHabit accepts either a habit id or its exact name.
func resolveHabit(ctx *Context, ref string) (*domain.Habit, error) {
	h, err := ctx.Habits.GetHabitByID(ctx.Ctx, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, domain.ErrHabitNotFound) {
		return nil, err
	}

	all, err := ctx.Habits.GetAllHabits(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range all {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrHabitNotFound, ref)
}

func today() string {
	return domain.FormatDate(time.Now())
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Habits.GetAllHabits(ctx.Ctx)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Fprintln(out, "No habits found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHABIT\tFREQUENCY\tSTREAK\tSYNC")
	for _, h := range habits {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d\t%s\n", h.ID, h.Icon, h.Name, h.Frequency, h.Streak, h.SyncStatus)
	}
	return tw.Flush()
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description."`
	Color       string `help:"Hex color."`
	Icon        string `help:"Emoji icon."`
	Frequency   string `help:"daily, weekly or custom." enum:"daily,weekly,custom" default:"daily"`
	Days        []int  `help:"Target weekdays, 0=Sunday ... 6=Saturday (default: every day)."`
	Target      *int   `help:"Target count per day."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	h, err := ctx.Habits.CreateHabit(ctx.Ctx, services.CreateHabitInput{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		Frequency:   domain.Frequency(c.Frequency),
		TargetDays:  c.Days,
		TargetCount: c.Target,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Color       *string `help:"New hex color."`
	Icon        *string `help:"New emoji icon."`
	Frequency   *string `help:"daily, weekly or custom."`
	Days        []int   `help:"New target weekdays."`
	Target      *int    `help:"New target count per day."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	h, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	input := services.UpdateHabitInput{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		TargetDays:  c.Days,
		TargetCount: c.Target,
	}
	if c.Frequency != nil {
		freq := domain.Frequency(*c.Frequency)
		input.Frequency = &freq
	}

	updated, err := ctx.Habits.UpdateHabit(ctx.Ctx, h.ID, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated habit: %s\n", updated.Name)
	return nil
}

type HabitRemoveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitRemoveCmd) Run(ctx *Context) error {
	h, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Habits.DeleteHabit(ctx.Ctx, h.ID); err != nil {
		return err
	}

	fmt.Fprintf(out, "Deleted habit: %s\n", h.Name)
	return nil
}

type CheckCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Count int    `help:"How many times." default:"1"`
	Note  string `help:"Optional note for this check-in."`
}

func (c *CheckCmd) Run(ctx *Context) error {
	h, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = today()
	}

	completion, err := ctx.Habits.AddCompletion(ctx.Ctx, h.ID, date, c.Count, c.Note)
	if err != nil {
		return err
	}

	updated, err := ctx.Habits.GetHabitByID(ctx.Ctx, h.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Checked %q for %s (count %d, streak %d)\n", h.Name, date, completion.Count, updated.Streak)
	return nil
}

type UncheckCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *UncheckCmd) Run(ctx *Context) error {
	h, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = today()
	}

	if err := ctx.Habits.RemoveCompletion(ctx.Ctx, h.ID, date); err != nil {
		return err
	}

	fmt.Fprintf(out, "Unchecked %q for %s\n", h.Name, date)
	return nil
}

type InsightsCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Weeks int    `help:"Number of weeks." default:"8"`
}

func (c *InsightsCmd) Run(ctx *Context) error {
	h, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	insights, err := ctx.Insights.GetWeeklyInsights(ctx.Ctx, h.ID, c.Weeks)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tDONE\tRATE\t")
	for _, w := range insights {
		bar := strings.Repeat("█", int(w.CompletionRate*10+0.5))
		fmt.Fprintf(tw, "%s\t%d/%d\t%3.0f%%\t%s\n", w.WeekLabel, w.DaysCompleted, w.TargetDays, w.CompletionRate*100, bar)
	}
	return tw.Flush()
}

type KeysCmd struct{}

func (c *KeysCmd) Run(ctx *Context) error {
	keys, err := ctx.Store.Keys(ctx.Ctx)
	if err != nil {
		return err
	}

	for _, k := range keys {
		fmt.Fprintln(out, k)
	}
	return nil
}
