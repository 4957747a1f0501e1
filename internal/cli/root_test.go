package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/streaks"
)

func setupTestDB(t *testing.T) (*Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := NewContext(store, "")
	ctx.Out = out
	ctx.In = strings.NewReader("")
	ctx.Now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func addUser(t *testing.T, ctx *Context, username string) models.User {
	t.Helper()
	user := models.User{ID: models.NewID(), Username: username, Email: username + "@example.com", CreatedAt: ctx.Now()}
	if err := ctx.Store.AddUser(user); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	return user
}

func TestCurrentUser_NotLoggedIn(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := ctx.CurrentUser()
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestCurrentUser_FromSettings(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := addUser(t, ctx, "ada")
	settings, _ := ctx.Store.GetSettings()
	settings.CurrentUser = user.ID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	got, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("CurrentUser() = %s, want %s", got.Username, user.Username)
	}
}

func TestCurrentUser_Override(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	addUser(t, ctx, "ada")
	grace := addUser(t, ctx, "grace")

	ctx.User = "grace"
	got, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got.ID != grace.ID {
		t.Errorf("CurrentUser() = %s, want grace", got.Username)
	}

	ctx.User = "nobody"
	if _, err := ctx.CurrentUser(); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCurrentUser_StaleSetting(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	settings, _ := ctx.Store.GetSettings()
	settings.CurrentUser = "missing"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	if _, err := ctx.CurrentUser(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn for a deleted user, got %v", err)
	}
}

func TestParseWhen(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"today", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"Yesterday", time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01T08:30", time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ctx.ParseWhen(tt.input)
			if err != nil {
				t.Fatalf("ParseWhen(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseWhen(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ctx.ParseWhen("last tuesday"); !errors.Is(err, streaks.ErrInvalidTimestamp) {
		t.Errorf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestParseWhen_ConfiguredTimezone(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	settings, _ := ctx.Store.GetSettings()
	settings.Timezone = "America/New_York"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	got, err := ctx.ParseWhen("2025-03-01")
	if err != nil {
		t.Fatalf("ParseWhen() error = %v", err)
	}
	if got.Location().String() != "America/New_York" || got.Hour() != 0 {
		t.Errorf("ParseWhen() = %v, want local midnight in America/New_York", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			out := &bytes.Buffer{}
			ctx := &Context{Out: out, In: strings.NewReader(tt.input)}
			got, err := ctx.Confirm("Continue?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Continue? [y/N]") {
				t.Errorf("prompt not written, got %q", out.String())
			}
		})
	}
}

func TestFindHabit(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := addUser(t, ctx, "ada")
	habit := models.Habit{ID: models.NewID(), UserID: user.ID, Name: "Exercise", Periodicity: streaks.Daily, CreatedAt: ctx.Now()}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	got, err := ctx.FindHabit(user.ID, "exercise")
	if err != nil {
		t.Fatalf("FindHabit() error = %v", err)
	}
	if got.ID != habit.ID {
		t.Errorf("FindHabit() returned %s", got.Name)
	}

	if _, err := ctx.FindHabit(user.ID, "Juggling"); err == nil || !strings.Contains(err.Error(), `habit "Juggling" not found`) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestAgo(t *testing.T) {
	ctx := &Context{Now: func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }}

	if got := ctx.Ago(nil); got != "never" {
		t.Errorf("Ago(nil) = %q, want never", got)
	}
	earlier := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	if got := ctx.Ago(&earlier); got != "2 days ago" {
		t.Errorf("Ago() = %q, want \"2 days ago\"", got)
	}
}
