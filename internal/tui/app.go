package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/session"
	"github.com/sadopc/focuslog/internal/settings"
	"github.com/sadopc/focuslog/internal/store"
	"github.com/sadopc/focuslog/internal/worklog"
)

// App is the root Bubble Tea model. It owns a stack of frames; only the top
// frame receives input and is drawn.
type App struct {
	store     *store.Store
	log       *worklog.Log
	settings  *settings.Store
	prefs     settings.Preferences
	exportDir string
	clock     session.Clock

	width  int
	height int

	stack   []frame
	idle    idleScheduler
	overlay *overlay

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the model with the main menu on the stack. prefs may be nil,
// in which case the built-in defaults are used and nothing is persisted.
func NewApp(s *store.Store, log *worklog.Log, prefs *settings.Store, exportDir string) *App {
	h := help.New()
	h.ShowAll = false

	a := &App{
		store:     s,
		log:       log,
		settings:  prefs,
		prefs:     settings.Defaults(),
		exportDir: exportDir,
		clock:     session.SystemClock,
		help:      h,
	}
	if prefs != nil {
		p, err := prefs.Preferences()
		if err != nil {
			slog.Warn("load preferences", "err", err)
		}
		a.prefs = p
	}
	a.idle.timeout = a.prefs.IdleTimeout
	a.pushMenu(menuMain, navCtx{})
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), a.idle.reset())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return a, a.quit()
		}
		idle := a.idle.reset()
		if a.overlay != nil {
			a.overlay = nil
			return a, idle
		}
		if _, ok := a.top().(*menuFrame); ok && key.Matches(msg, keys.Help) {
			a.help.ShowAll = !a.help.ShowAll
			return a, idle
		}
		return a, tea.Batch(idle, a.top().update(a, msg))

	case tickMsg:
		return a, tea.Batch(tickCmd(), a.top().update(a, msg))

	case idleMsg:
		if !a.idle.fired(msg) {
			return a, nil
		}
		if _, ok := a.top().(*menuFrame); ok {
			a.overlay = newOverlay(a)
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		return a, a.notice("Exported to "+msg.path, color.Highlight, nil)
	}

	// forms and text inputs need their own blink/focus messages
	return a, a.top().update(a, msg)
}

// ============================================================
// Frame stack
// ============================================================

func (a *App) top() frame {
	return a.stack[len(a.stack)-1]
}

func (a *App) push(f frame) tea.Cmd {
	a.stack = append(a.stack, f)
	if i, ok := f.(initer); ok {
		return i.init()
	}
	return nil
}

// pop removes the top frame. The root menu is never removed.
func (a *App) pop() {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
}

func (a *App) resetToMain() {
	a.stack = a.stack[:1]
}

// notice pushes a dismissable message; then runs after the key press.
func (a *App) notice(text string, tag color.ID, then func(a *App) tea.Cmd) tea.Cmd {
	return a.push(&noticeFrame{text: text, tag: tag, then: then})
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

// quit finishes a running session, saves the store and exits.
func (a *App) quit() tea.Cmd {
	if s, ok := a.top().(*sessionFrame); ok && !s.timer.State().Finished() {
		if err := s.timer.Cancel(); err != nil {
			slog.Error("record session on exit", "err", err)
		}
	}
	if err := a.store.Save(); err != nil {
		slog.Error("save categories on exit", "err", err)
	}
	return tea.Quit
}

// ============================================================
// View
// ============================================================

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if a.overlay != nil {
		content = a.overlay.view(a.width, contentHeight)
	} else {
		content = a.top().view(a, a.width, contentHeight)
	}
	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a *App) renderHeader() string {
	title := brandStyle.Render("focuslog")

	var crumbs []string
	for _, f := range a.stack {
		if m, ok := f.(*menuFrame); ok {
			crumbs = append(crumbs, menus[m.id].title(a, m.ctx))
		}
	}
	trail := mutedStyle.Render(strings.Join(crumbs, " › "))

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(trail) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, trail))
}

func (a *App) renderFooter() string {
	var helpView string
	if _, ok := a.top().(*sessionFrame); ok {
		helpView = a.help.View(sessionKeys{})
	} else {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		st := mutedStyle
		if a.statusErr {
			st = errorStyle
		}
		status = st.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
