package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/users"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force      bool `help:"Back up and delete the existing database before initialization."`
	NoSeedUser bool `help:"Do not create the demo user with example habits."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.NoSeedUser {
		return nil
	}
	return c.seedDemoUser(ctx)
}

// reset backs up the SQLite file and removes it so Init starts from an empty schema.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if !storage.IsSQLite(ctx.Store) {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		// Some other error occurred while checking the database; surface it to the user
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Database exists, close it first to prevent file locking issues
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}

	backupPath, err := backup.NewManager(dbPath).CreateBackup()
	if err != nil {
		return fmt.Errorf("refusing to delete the database, backup failed: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s (backup: %s)\n", dbPath, backupPath)
	return nil
}

// seedDemoUser registers the demo user on a database without users and logs in as them.
func (c *InitCmd) seedDemoUser(ctx *cli.Context) error {
	existing, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	user, err := users.Register(ctx, constants.DemoUsername, constants.DemoEmail, true)
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}
	if err := users.Login(ctx, user); err != nil {
		return err
	}
	ctx.Printf("Logged in as demo user %q. Register your own with '%s user register'.\n", user.Username, constants.AppName)
	return nil
}
