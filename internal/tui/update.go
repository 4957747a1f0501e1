package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

// header and footer rows reserved around the habit list
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
		m.habits.SetSize(msg.Width-h, max(msg.Height-v-chromeHeight, 1))
		return m, nil

	case statsMsg:
		m.habits.SetStats(msg.stats, msg.now)
		m.leader = msg.leader
		m.err = nil
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, m.load

	case errMsg:
		logger.Error("tui action failed", "error", msg.err)
		m.err = msg.err
		return m, nil

	case habits.CompleteHabitMsg:
		return m, m.complete(msg.ID)

	case habits.UndoHabitMsg:
		return m, m.undo(msg.ID)

	case tea.KeyMsg:
		if m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = "Refreshed"
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}
