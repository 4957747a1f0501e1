package main

import (
	"fmt"
	"os"
	"path/filepath"
	_ "time/tzdata" // timezone setting must resolve on hosts without zoneinfo

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/stats"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/cli/users"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path or PostgreSQL connection string. Credentials must NOT be embedded in the connection string; use the keyring, HABITUAL_DB_CONNECTION, or .pgpass instead." type:"string" env:"HABITUAL_CONFIG" default:"~/.config/habitual/habitual.db"`
	User    string `help:"Act as this user instead of the logged-in one." env:"HABITUAL_USER"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init       system.InitCmd       `cmd:"" help:"Initialize habitual storage."`
	Migrate    system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor     system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui        system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Diag       system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring    system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Settings   settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup     backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Users      users.UserCmd        `cmd:"" name:"user" help:"Manage users."`
	Habit      habits.HabitCmd      `cmd:"" help:"Manage habits and record completions."`
	Completion habits.CompletionCmd `cmd:"" help:"Inspect and correct individual completions."`
	Streak     stats.StreakCmd      `cmd:"" help:"Show streak analytics."`
	Due        stats.DueCmd         `cmd:"" help:"List habits still due in their current period."`
}

// logDir keeps log files next to a SQLite database, or in the default config directory otherwise.
func logDir(config string) string {
	if !postgres.IsConnString(config) {
		if path, err := utils.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	path, err := utils.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return os.TempDir()
	}
	return filepath.Dir(path)
}

func main() {
	// a missing .env is the normal case
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with daily and weekly streak analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logger.Debug("starting", "command", ctx.Command(), "version", constants.Version)

	store, err := storage.Open(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, CLI.User)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
