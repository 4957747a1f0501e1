package system

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// Load the database
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	before, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	ctx.Printf("Schema version: %d (latest %d)\n", before.Current, before.Latest)

	if before.UpToDate() {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}
	for _, p := range before.Pending {
		ctx.Printf("  pending %03d_%s\n", p.Version, p.Name)
	}
	if c.Status {
		return nil
	}

	// Init is idempotent and applies whatever is pending
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	ctx.Printf("\nSuccessfully applied %d migration(s).\n", after.Current-before.Current)
	return nil
}
