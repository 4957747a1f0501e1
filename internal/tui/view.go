package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("habitual · %s", m.user.Username)))
	b.WriteString("\n")
	b.WriteString(leaderStyle.Render(m.leaderLine()))
	b.WriteString("\n\n")
	b.WriteString(m.habits.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m))

	return docStyle.Render(b.String())
}

func (m Model) leaderLine() string {
	if m.leader == nil || m.leader.Streak == 0 {
		return "No streaks yet. Complete a habit to start one."
	}
	noun := m.leader.Habit.Periodicity.Noun()
	if m.leader.Streak != 1 {
		noun += "s"
	}
	return fmt.Sprintf("Longest streak: %s (%d %s)", m.leader.Habit.Name, m.leader.Streak, noun)
}
