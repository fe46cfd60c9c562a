package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sadopc/focuslog/internal/color"
)

// frame is one modal state on the navigation stack. Only the top frame
// receives input.
type frame interface {
	update(a *App, msg tea.Msg) tea.Cmd
	view(a *App, width, height int) string
}

// initer is implemented by frames that need a command when pushed.
type initer interface {
	init() tea.Cmd
}

func renderCanvas(width, height int, draw func(Screen)) string {
	c := newCanvas(height, width)
	draw(c)
	return c.Render()
}

// ============================================================
// Text prompt
// ============================================================

type promptFrame struct {
	label  string
	input  textinput.Model
	submit func(a *App, value string) tea.Cmd
}

func newPrompt(label string, limit int, submit func(a *App, value string) tea.Cmd) *promptFrame {
	ti := textinput.New()
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = "> "
	return &promptFrame{label: label, input: ti, submit: submit}
}

func (p *promptFrame) init() tea.Cmd {
	return p.input.Focus()
}

func (p *promptFrame) update(a *App, msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Back):
			a.pop()
			return nil
		case key.Matches(k, keys.Enter):
			value := p.input.Value()
			a.pop()
			return p.submit(a, value)
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *promptFrame) view(_ *App, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(p.label),
		"",
		p.input.View(),
		"",
		mutedStyle.Render("enter: confirm  esc: cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// ============================================================
// Notice
// ============================================================

// noticeFrame shows a message until any key is pressed, then runs then.
type noticeFrame struct {
	text string
	tag  color.ID
	then func(a *App) tea.Cmd
}

func (n *noticeFrame) update(a *App, msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return nil
	}
	a.pop()
	if n.then != nil {
		return n.then(a)
	}
	return nil
}

func (n *noticeFrame) view(_ *App, width, height int) string {
	return renderCanvas(width, height, func(scr Screen) {
		rows, cols := scr.Size()
		lines := strings.Split(wordwrap.String(n.text, max(cols-8, 10)), "\n")
		top := (rows - len(lines) - 2) / 2
		for i, l := range lines {
			drawCentered(scr, top+i, l, Style{Tag: n.tag, Bold: true})
		}
		drawCentered(scr, top+len(lines)+1, pressAnyKey, styleMuted)
	})
}

// ============================================================
// Double confirmation
// ============================================================

// confirmFrame asks each question in turn. Only y/e on every question
// counts as yes; any other key is a no.
type confirmFrame struct {
	questions []string
	stage     int
	yes       func(a *App) tea.Cmd
	no        func(a *App) tea.Cmd
}

func (c *confirmFrame) update(a *App, msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if !key.Matches(k, confirmKeys) {
		a.pop()
		if c.no != nil {
			return c.no(a)
		}
		return nil
	}
	c.stage++
	if c.stage < len(c.questions) {
		return nil
	}
	a.pop()
	return c.yes(a)
}

func (c *confirmFrame) view(_ *App, width, height int) string {
	return renderCanvas(width, height, func(scr Screen) {
		rows, cols := scr.Size()
		lines := strings.Split(wordwrap.String(c.questions[c.stage], max(cols-8, 10)), "\n")
		top := (rows - len(lines)) / 2
		for i, l := range lines {
			drawCentered(scr, top+i, l, styleWarning)
		}
	})
}

func (a *App) confirmTwice(first, second string, yes, no func(a *App) tea.Cmd) tea.Cmd {
	return a.push(&confirmFrame{
		questions: []string{first + " (y/N)", second + " (y/N)"},
		yes:       yes,
		no:        no,
	})
}

func deletionCanceled(a *App) tea.Cmd {
	return a.notice(noticeDeleteCanceled, color.Highlight, nil)
}
