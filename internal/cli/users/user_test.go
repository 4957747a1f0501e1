package users

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/seed"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, "")
	ctx.Out = out
	ctx.In = strings.NewReader("")
	ctx.Now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func TestRegister_WithSeed(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := Register(ctx, "  ada ", "ada@example.com", true)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("username = %q, want trimmed \"ada\"", user.Username)
	}

	habits, err := ctx.Store.GetAllHabits(user.ID, false, false)
	if err != nil {
		t.Fatalf("failed to get habits: %v", err)
	}
	if len(habits) != len(seed.Habits) {
		t.Errorf("seeded %d habits, want %d", len(habits), len(seed.Habits))
	}
	if !strings.Contains(out.String(), "example habits") {
		t.Errorf("expected seed message, got %q", out.String())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := Register(ctx, "ada", "ada@example.com", false); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := Register(ctx, "ada", "other@example.com", false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := Register(ctx, "ada", "not-an-email", false); err == nil {
		t.Error("expected validation error for a malformed email")
	}
}

func TestRegisterCmd_LogsIn(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &RegisterCmd{Username: "ada", Email: "ada@example.com", NoSeed: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("logged in as %q, want ada", user.Username)
	}
	if !strings.Contains(out.String(), "Logged in as ada") {
		t.Errorf("unexpected output %q", out.String())
	}

	habits, _ := ctx.Store.GetAllHabits(user.ID, true, true)
	if len(habits) != 0 {
		t.Errorf("--no-seed still created %d habits", len(habits))
	}
}

func TestRegisterCmd_NoLogin(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &RegisterCmd{Username: "ada", Email: "ada@example.com", NoSeed: true, NoLogin: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := ctx.CurrentUser(); err == nil {
		t.Error("--no-login should leave nobody logged in")
	}
}

func TestLoginLogout(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := Register(ctx, "ada", "ada@example.com", false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := (&LoginCmd{Username: "nobody"}).Run(ctx); err == nil {
		t.Error("expected error logging in as an unknown user")
	}
	if err := (&LoginCmd{Username: "ada"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := ctx.CurrentUser(); err != nil {
		t.Fatalf("CurrentUser() after login error = %v", err)
	}

	out.Reset()
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if !strings.Contains(out.String(), "No user is logged in.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestListCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No users found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	ada, _ := Register(ctx, "ada", "ada@example.com", false)
	if _, err := Register(ctx, "grace", "grace@example.com", false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Login(ctx, ada); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	out.Reset()
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		current := strings.HasPrefix(line, "*")
		if strings.Contains(line, "ada") != current {
			t.Errorf("current user marker misplaced: %q", line)
		}
	}
}

func TestEditCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&RegisterCmd{Username: "ada", Email: "ada@example.com", NoSeed: true}).Run(ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := Register(ctx, "grace", "grace@example.com", false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out.Reset()
	if err := (&EditCmd{}).Run(ctx); err != nil {
		t.Fatalf("empty edit failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := (&EditCmd{Username: "grace"}).Run(ctx); err == nil {
		t.Error("expected error renaming to a taken username")
	}

	if err := (&EditCmd{Username: "lovelace", Email: "lovelace@example.com"}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	user, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Username != "lovelace" || user.Email != "lovelace@example.com" {
		t.Errorf("user not updated: %+v", user)
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&RegisterCmd{Username: "ada", Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// declined confirmation keeps the user
	ctx.In = strings.NewReader("n\n")
	if err := (&DeleteCmd{Username: "ada"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := ctx.Store.GetUserByUsername("ada"); err != nil {
		t.Fatalf("user removed despite cancelled prompt: %v", err)
	}

	if err := (&DeleteCmd{Username: "ada", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetUserByUsername("ada"); err == nil {
		t.Error("user still exists after delete")
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.CurrentUser != "" {
		t.Errorf("current user not cleared: %q", settings.CurrentUser)
	}

	habits, err := ctx.Store.GetAllHabits("", true, true)
	if err != nil {
		t.Fatalf("failed to get habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("%d habits survived their owner", len(habits))
	}
}
