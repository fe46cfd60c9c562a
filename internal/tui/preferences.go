package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/settings"
)

type preferencesFrame struct {
	form *huh.Form

	// Form values as pointers (survive value copies)
	idleSeconds     *string
	durationMinutes *string
}

func newPreferencesFrame(p settings.Preferences) *preferencesFrame {
	idle := strconv.Itoa(int(p.IdleTimeout / time.Second))
	dur := strconv.Itoa(int(p.DefaultDuration / time.Minute))
	f := &preferencesFrame{idleSeconds: &idle, durationMinutes: &dur}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Idle overlay after (seconds)").
				Value(f.idleSeconds).
				Validate(positiveInt),
			huh.NewInput().Title("Default session length (minutes)").
				Value(f.durationMinutes).
				Validate(positiveInt),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)
	return f
}

func (f *preferencesFrame) init() tea.Cmd {
	return f.form.Init()
}

func (f *preferencesFrame) update(a *App, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		a.pop()
		return nil
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	if f.form.State == huh.StateCompleted {
		a.pop()
		return a.savePreferences(f.values())
	}
	return cmd
}

func (f *preferencesFrame) values() settings.Preferences {
	idle, _ := strconv.Atoi(*f.idleSeconds)
	mins, _ := strconv.Atoi(*f.durationMinutes)
	return settings.Preferences{
		IdleTimeout:     time.Duration(idle) * time.Second,
		DefaultDuration: time.Duration(mins) * time.Minute,
	}
}

func (f *preferencesFrame) view(_ *App, width, _ int) string {
	return panelStyle.Width(width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", f.form.View()),
	)
}

func (a *App) savePreferences(p settings.Preferences) tea.Cmd {
	if a.settings != nil {
		if err := a.settings.SavePreferences(p); err != nil {
			slog.Error("save preferences", "err", err)
			return a.notice("Could not save preferences: "+err.Error(), color.Warning, nil)
		}
	}
	a.prefs = p
	a.idle.timeout = p.IdleTimeout
	return tea.Batch(a.idle.reset(), a.notice(noticePrefsSaved, color.Highlight, nil))
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number greater than zero")
	}
	return nil
}
