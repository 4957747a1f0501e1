package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !storage.IsSQLite(ctx.Store) {
		return nil, fmt.Errorf("backups are only supported for SQLite databases, use pg_dump for PostgreSQL")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ts := b.Timestamp
		ctx.Printf("  %s  %s  (%s, %s)\n", ts.Format("2006-01-02 15:04:05"), b.Name(), humanize.IBytes(uint64(b.Size)), ctx.Ago(&ts))
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		// a bare name may also refer to a file in the working directory
		if _, cwdErr := os.Stat(c.BackupFile); cwdErr != nil {
			return fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
		}
		backupPath = c.BackupFile
	}
	if abs, err := filepath.Abs(backupPath); err == nil {
		backupPath = abs
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.Printf("⚠️  IMPORTANT: All %s processes (including TUI) must be stopped before restore.\n", constants.AppName)
		ctx.Println("A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// Close the current store connection before restoring
	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	saved, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println("✓ Database restored successfully!")
	if saved != "" {
		ctx.Printf("  Previous database saved as %s\n", filepath.Base(saved))
	}
	return nil
}
