package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streaks"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

// statsMsg carries freshly computed streaks for every active habit
type statsMsg struct {
	stats  []analytics.HabitStats
	leader *analytics.Leader
	now    time.Time
}

// statusMsg reports a finished action and triggers a reload
type statusMsg string

type errMsg struct {
	err error
}

type Model struct {
	store     storage.Provider
	analytics *analytics.Service
	user      models.User
	now       func() time.Time
	keys      KeyMap
	help      help.Model
	habits    habits.Model
	leader    *analytics.Leader
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(store storage.Provider, svc *analytics.Service, user models.User) Model {
	return Model{
		store:     store,
		analytics: svc,
		user:      user,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habits:    habits.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	hk := m.habits.Keys()
	return []key.Binding{hk.Complete, hk.Undo, m.keys.Refresh, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	hk := m.habits.Keys()
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Filter},
		{hk.Complete, hk.Undo, m.keys.Refresh},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	now := m.now()
	stats, err := m.analytics.AllStreaks(m.user.ID, now)
	if err != nil {
		return errMsg{err}
	}

	msg := statsMsg{stats: stats, now: now}
	leader, err := m.analytics.LongestOverall(m.user.ID)
	switch {
	case err == nil:
		msg.leader = &leader
	case !errors.Is(err, streaks.ErrEmptyHabitSet):
		return errMsg{err}
	}
	return msg
}

func (m Model) complete(id string) tea.Cmd {
	return func() tea.Msg {
		habit, err := m.store.GetHabit(id)
		if err != nil {
			return errMsg{err}
		}
		loc, err := m.analytics.Location()
		if err != nil {
			return errMsg{err}
		}

		now := m.now().In(loc)
		c := models.Completion{
			ID:          models.NewID(),
			HabitID:     habit.ID,
			CompletedAt: now,
			CreatedAt:   now,
		}
		if err := m.store.AddCompletion(c); err != nil {
			return errMsg{err}
		}
		logger.Debug("completed habit from tui", "habit", habit.Name)
		return statusMsg(fmt.Sprintf("Completed %s", habit.Name))
	}
}

// undo removes the latest completion in the habit's current period.
func (m Model) undo(id string) tea.Cmd {
	return func() tea.Msg {
		habit, err := m.store.GetHabit(id)
		if err != nil {
			return errMsg{err}
		}
		start, end, err := m.analytics.PeriodBounds(habit.Periodicity, m.now())
		if err != nil {
			return errMsg{err}
		}
		completions, err := m.store.GetCompletionsInRange(habit.ID, start, end)
		if err != nil {
			return errMsg{err}
		}
		if len(completions) == 0 {
			return statusMsg(fmt.Sprintf("Nothing to undo for %s", habit.Name))
		}

		last := completions[len(completions)-1]
		if err := m.store.DeleteCompletion(last.ID); err != nil {
			return errMsg{err}
		}
		logger.Debug("undid completion from tui", "habit", habit.Name, "completion", last.ID)
		return statusMsg(fmt.Sprintf("Removed this %s's completion of %s", habit.Periodicity.Noun(), habit.Name))
	}
}
