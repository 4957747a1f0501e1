package habits

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitual/internal/analytics"
)

type CompleteHabitMsg struct {
	ID string
}

type UndoHabitMsg struct {
	ID string
}

type Item struct {
	Stats analytics.HabitStats
	Now   time.Time
}

func (i Item) Title() string {
	if i.Stats.Due {
		return "○ " + i.Stats.Habit.Name
	}
	return "✓ " + i.Stats.Habit.Name
}

func (i Item) Description() string {
	noun := i.Stats.Habit.Periodicity.Noun()
	desc := fmt.Sprintf("%s · streak %d (best %d)", i.Stats.Habit.Periodicity, i.Stats.Current, i.Stats.Longest)
	if i.Stats.Due {
		desc += " · due this " + noun
	}
	if i.Stats.LastCompleted != nil {
		desc += " · last done " + humanize.RelTime(*i.Stats.LastCompleted, i.Now, "ago", "from now")
	}
	return desc
}

func (i Item) FilterValue() string { return i.Stats.Habit.Name }

type KeyMap struct {
	Complete key.Binding
	Undo     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		list: l,
		keys: DefaultKeyMap(),
	}
}

func (m *Model) SetStats(stats []analytics.HabitStats, now time.Time) {
	items := make([]list.Item, len(stats))
	for i, st := range stats {
		items[i] = Item{Stats: st, Now: now}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (analytics.HabitStats, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return analytics.HabitStats{}, false
	}
	return i.Stats, true
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the user is typing a filter query.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Complete):
			if st, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: st.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Undo):
			if st, ok := m.Selected(); ok && !st.Due {
				return m, func() tea.Msg { return UndoHabitMsg{ID: st.Habit.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
