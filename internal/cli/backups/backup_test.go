package backups

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/streaks"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	dbPath := filepath.Join(t.TempDir(), "habitual.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, "")
	ctx.Out = out
	ctx.In = strings.NewReader("")

	user := models.User{ID: "u1", Username: "ada", Email: "ada@example.com", CreatedAt: time.Now()}
	if err := store.AddUser(user); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	habit := models.Habit{ID: "h1", UserID: user.ID, Name: "Exercise", Periodicity: streaks.Daily, CreatedAt: time.Now()}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return ctx, out, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, dbPath := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created:") {
		t.Errorf("unexpected output %q", out.String())
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("found %d backups, want 1", len(backups))
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), backups[0].Name()) {
		t.Errorf("backup %s not listed:\n%s", backups[0].Name(), out.String())
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, out, dbPath := setupTestDB(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v", backups, err)
	}

	// change the live database after the backup was taken
	if err := ctx.Store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: backups[0].Name(), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	if _, err := ctx.Store.GetHabit("h1"); err != nil {
		t.Errorf("restored database is missing habit h1: %v", err)
	}
}

func TestBackupRestoreCmd_Cancelled(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, _ := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()

	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: backups[0].Name()}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBackupRestoreCmd_MissingFile(t *testing.T) {
	ctx, _, _ := setupTestDB(t)

	err := (&BackupRestoreCmd{BackupFile: "habitual-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
	if _, statErr := os.Stat(ctx.Store.GetConfigPath()); statErr != nil {
		t.Errorf("database touched by failed restore: %v", statErr)
	}
}

func TestBackup_PostgresUnsupported(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://localhost/habitual"), "")

	err := (&BackupCreateCmd{}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "pg_dump") {
		t.Errorf("expected pg_dump hint, got %v", err)
	}
}
