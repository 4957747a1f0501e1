package system

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug db-path failed: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result["path"] != ctx.Store.GetConfigPath() {
		t.Errorf("path = %q, want %q", result["path"], ctx.Store.GetConfigPath())
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	user := loginUser(t, ctx)
	habit := models.Habit{ID: "h1", UserID: user.ID, Name: "Exercise", Periodicity: streaks.Weekly, CreatedAt: time.Now()}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := ctx.Store.AddCompletion(models.Completion{ID: "c1", HabitID: "h1", CompletedAt: at, CreatedAt: at}); err != nil {
		t.Fatalf("failed to add completion: %v", err)
	}

	if err := (&DebugDumpHabitCmd{Name: "Exercise"}).Run(ctx); err != nil {
		t.Fatalf("debug dump-habit failed: %v", err)
	}

	var dump struct {
		Habit       models.Habit        `json:"habit"`
		Completions []models.Completion `json:"completions"`
	}
	if err := json.Unmarshal(out.Bytes(), &dump); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if dump.Habit.Periodicity != streaks.Weekly {
		t.Errorf("periodicity = %s, want weekly", dump.Habit.Periodicity)
	}
	if len(dump.Completions) != 1 || !dump.Completions[0].CompletedAt.Equal(at) {
		t.Errorf("completions = %+v", dump.Completions)
	}
}

func TestDebugDumpSettingsCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug dump-settings failed: %v", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(out.Bytes(), &settings); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if settings.Timezone == "" {
		t.Error("timezone missing from settings dump")
	}
}
