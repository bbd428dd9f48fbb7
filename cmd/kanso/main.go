package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-local/internal/config"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
	"github.com/comitanigiacomo/kanso-local/internal/logger"
)

var CLI struct {
	Debug bool `help:"Log debug output to stderr."`

	Habit    HabitCmd    `cmd:"" help:"Manage habits."`
	Check    CheckCmd    `cmd:"" help:"Record a check-in for a habit."`
	Uncheck  UncheckCmd  `cmd:"" help:"Undo the check-in of a habit on a day."`
	Insights InsightsCmd `cmd:"" help:"Show weekly completion rates of a habit."`
	Keys     KeysCmd     `cmd:"" help:"List raw storage keys."`
}

// Context is handed to every command's Run method.
type Context struct {
	Ctx      context.Context
	Store    kv.Store
	Habits   *services.HabitService
	Insights *services.InsightsService
}

func newContext(ctx context.Context, store kv.Store, log *zap.Logger) *Context {
	habitRepo := repository.NewHabitRepository(store, log)
	completionRepo := repository.NewCompletionRepository(store, log)

	return &Context{
		Ctx:      ctx,
		Store:    store,
		Habits:   services.NewHabitService(habitRepo, completionRepo, services.WithLogger(log)),
		Insights: services.NewInsightsService(habitRepo, completionRepo, nil),
	}
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("kanso"),
		kong.Description("Offline-first habit tracker, local store tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := "warn"
	if CLI.Debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, File: cfg.LogFile, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	store, closeStore, err := config.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(newContext(ctx, store, log))
	closeStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
