package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/session"
)

// sessionFrame shows a running countdown. It is always the only frame above
// the main menu.
type sessionFrame struct {
	timer    *session.Timer
	catTag   color.ID
	focusTag color.ID
	bar      progress.Model
}

func newSessionFrame(t *session.Timer, catTag, focusTag color.ID) *sessionFrame {
	return &sessionFrame{
		timer:    t,
		catTag:   catTag,
		focusTag: focusTag,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

func (s *sessionFrame) update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if s.timer.State().Finished() {
			return nil
		}
		finished, err := s.timer.Tick()
		if err != nil {
			a.setStatus("Could not record session: "+err.Error(), true)
		}
		if finished {
			slog.Info("session expired", "category", s.timer.Category(), "focus", s.timer.Focus())
			return func() tea.Msg { return statusMsg{text: "Time's up! \a"} }
		}

	case tea.KeyMsg:
		if s.timer.State().Finished() {
			a.resetToMain()
			return nil
		}
		switch {
		case key.Matches(msg, keys.Pause):
			s.timer.Toggle()
		case key.Matches(msg, keys.Back):
			err := s.timer.Cancel()
			a.resetToMain()
			if err != nil {
				a.setStatus("Could not record session: "+err.Error(), true)
				return nil
			}
			slog.Info("session finished early", "seconds", s.timer.Recorded())
			a.setStatus("Session recorded: "+formatSeconds(s.timer.Recorded()), false)
		}
	}
	return nil
}

func (s *sessionFrame) view(_ *App, width, height int) string {
	w := width - 4

	labels := lipgloss.JoinHorizontal(lipgloss.Bottom,
		lipglossStyle(Style{Tag: s.catTag, Bold: true}).Render(s.timer.Category()),
		mutedStyle.Render(" / "),
		lipglossStyle(Style{Tag: s.focusTag, Bold: true}).Render(s.timer.Focus()),
	)

	var clock, marker, hint string
	switch s.timer.State() {
	case session.Expired:
		clock = successStyle.Bold(true).Render("Time's Up!")
		marker = mutedStyle.Render("Recorded " + formatSeconds(s.timer.Recorded()))
		hint = mutedStyle.Render(pressAnyKey)
	case session.Paused:
		clock = timerPausedStyle.Render(formatDuration(s.timer.Remaining()))
		marker = warningStyle.Bold(true).Render("PAUSED")
		hint = mutedStyle.Render("space: resume  esc: finish early")
	default:
		clock = timerRunningStyle.Render(formatDuration(s.timer.Remaining()))
		marker = mutedStyle.Render(fmt.Sprintf("of %s", formatDuration(s.timer.Requested())))
		hint = mutedStyle.Render("space: pause  esc: finish early")
	}

	s.bar.Width = min(max(w-10, 10), 60)

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Focus Session"),
		"",
		labels,
		"",
		clock,
		marker,
		"",
		s.bar.ViewAs(s.timer.Progress()),
		"",
		hint,
	)
	panel := panelStyle.Width(min(w, 72)).Align(lipgloss.Center).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
