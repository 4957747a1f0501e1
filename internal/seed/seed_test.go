package seed

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/streaks"
)

func TestCompletions(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		periodicity streaks.Periodicity
		want        int
	}{
		{streaks.Daily, 28},
		{streaks.Weekly, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.periodicity), func(t *testing.T) {
			got := Completions(tt.periodicity, now)
			if len(got) != tt.want {
				t.Fatalf("Completions() = %d times, want %d", len(got), tt.want)
			}
			if !got[0].Equal(now) {
				t.Errorf("first completion = %v, want %v", got[0], now)
			}
			n, err := streaks.CurrentStreak(tt.periodicity, got, now)
			if err != nil {
				t.Fatalf("CurrentStreak() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("CurrentStreak() = %d, want an unbroken run of %d", n, tt.want)
			}
		})
	}
}

func TestCompletionsAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// DST started on 2025-03-09 in New York
	now := time.Date(2025, 3, 20, 23, 30, 0, 0, ny)

	got := Completions(streaks.Daily, now)
	periods, err := streaks.NormalizePeriods(streaks.Daily, got)
	if err != nil {
		t.Fatalf("NormalizePeriods() error = %v", err)
	}
	if len(periods) != len(got) {
		t.Errorf("%d completions landed on %d distinct days", len(got), len(periods))
	}
}

func TestSeed(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.SaveSettings(models.Settings{Timezone: "UTC"}); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	user := models.User{ID: models.NewID(), Username: "ada", Email: "ada@example.com", CreatedAt: time.Now()}
	if err := store.AddUser(user); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	habits, err := Seed(store, user.ID, now)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(habits) != len(Habits) {
		t.Fatalf("Seed() created %d habits, want %d", len(habits), len(Habits))
	}

	daily, err := store.GetHabitsByPeriodicity(user.ID, streaks.Daily)
	if err != nil {
		t.Fatalf("GetHabitsByPeriodicity() error = %v", err)
	}
	if len(daily) != 3 {
		t.Errorf("daily habits = %d, want 3", len(daily))
	}

	svc := analytics.New(store)
	leader, err := svc.LongestOverall(user.ID)
	if err != nil {
		t.Fatalf("LongestOverall() error = %v", err)
	}
	// the daily habits tie at 28 and the first one created wins
	if leader.Habit.Name != "Exercise" || leader.Streak != 28 {
		t.Errorf("LongestOverall() = %s/%d, want Exercise/28", leader.Habit.Name, leader.Streak)
	}

	due, err := svc.HabitsDue(user.ID, now)
	if err != nil {
		t.Fatalf("HabitsDue() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("HabitsDue() right after seeding = %d habits, want 0", len(due))
	}
}
