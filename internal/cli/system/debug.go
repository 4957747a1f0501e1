package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit with its completions as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(user.ID, cmd.Name)
	if err != nil {
		return err
	}
	completions, err := ctx.Store.GetCompletions(habit.ID, true)
	if err != nil {
		return err
	}

	return printJSON(ctx, struct {
		Habit       models.Habit        `json:"habit"`
		Completions []models.Completion `json:"completions"`
	}{habit, completions})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	return printJSON(ctx, settings)
}
