package habits

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

func stats(id, name string, due bool, current int, last *time.Time) analytics.HabitStats {
	return analytics.HabitStats{
		Habit:         models.Habit{ID: id, Name: name, Periodicity: streaks.Daily},
		Summary:       streaks.Summary{Current: current, Longest: current, Due: due},
		LastCompleted: last,
	}
}

func TestItem(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	due := Item{Stats: stats("h1", "Exercise", true, 3, &yesterday), Now: now}
	if due.Title() != "○ Exercise" {
		t.Errorf("Title() = %q", due.Title())
	}
	desc := due.Description()
	for _, want := range []string{"daily · streak 3 (best 3)", "due this day", "last done 1 day ago"} {
		if !strings.Contains(desc, want) {
			t.Errorf("Description() = %q, missing %q", desc, want)
		}
	}

	done := Item{Stats: stats("h2", "Reading", false, 1, &now), Now: now}
	if done.Title() != "✓ Reading" {
		t.Errorf("Title() = %q", done.Title())
	}
	if strings.Contains(done.Description(), "due") {
		t.Errorf("completed habit described as due: %q", done.Description())
	}

	never := Item{Stats: stats("h3", "Stretch", true, 0, nil), Now: now}
	if strings.Contains(never.Description(), "last done") {
		t.Errorf("never completed habit has a last done time: %q", never.Description())
	}
}

func TestUpdate_Keys(t *testing.T) {
	m := New(80, 20)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m.SetStats([]analytics.HabitStats{stats("h1", "Exercise", true, 0, nil)}, now)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd == nil {
		t.Fatal("c produced no command")
	}
	if msg, ok := cmd().(CompleteHabitMsg); !ok || msg.ID != "h1" {
		t.Errorf("c produced %#v", msg)
	}

	// nothing to undo while the habit is due
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")}); cmd != nil {
		t.Error("u on a due habit produced a command")
	}

	m.SetStats([]analytics.HabitStats{stats("h1", "Exercise", false, 1, &now)}, now)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	if cmd == nil {
		t.Fatal("u produced no command")
	}
	if msg, ok := cmd().(UndoHabitMsg); !ok || msg.ID != "h1" {
		t.Errorf("u produced %#v", msg)
	}
}

func TestSelected_Empty(t *testing.T) {
	m := New(80, 20)
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on an empty list should report false")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}); cmd != nil {
		t.Error("c on an empty list produced a command")
	}
}
