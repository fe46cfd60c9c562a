package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focuslog/internal/color"
)

// option is one selectable, optionally coloured, menu line.
type option struct {
	label string
	tag   color.ID
}

// selectModel is the list selection primitive every menu is built on.
// Enter yields the highlighted index, Esc yields -1. The highlight wraps.
type selectModel struct {
	title   string
	options []option
	cursor  int
}

func newSelect(title string, opts []option, initial int) selectModel {
	s := selectModel{title: title}
	s.setOptions(opts)
	s.cursor = initial
	s.clamp()
	return s
}

func (s *selectModel) setOptions(opts []option) {
	s.options = opts
	s.clamp()
}

func (s *selectModel) clamp() {
	if s.cursor >= len(s.options) {
		s.cursor = len(s.options) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// update handles one key. done is true once a choice or cancel was made.
func (s *selectModel) update(msg tea.KeyMsg) (choice int, done bool) {
	n := len(s.options)
	switch {
	case key.Matches(msg, keys.Back):
		return -1, true
	case n == 0:
		return 0, false
	case key.Matches(msg, keys.Up):
		s.cursor = (s.cursor - 1 + n) % n
	case key.Matches(msg, keys.Down):
		s.cursor = (s.cursor + 1) % n
	case key.Matches(msg, keys.Enter):
		return s.cursor, true
	}
	return 0, false
}

// draw renders the title and options centred vertically on scr.
func (s selectModel) draw(scr Screen) {
	rows, _ := scr.Size()
	top := (rows - len(s.options) - 2) / 2
	if top < 0 {
		top = 0
	}
	// keep the highlight visible on short screens
	first := 0
	if visible := rows - top - 2; visible > 0 && s.cursor >= visible {
		first = s.cursor - visible + 1
	}

	drawCentered(scr, top, s.title, styleTitle)
	for i := first; i < len(s.options); i++ {
		o := s.options[i]
		st := Style{Tag: o.tag, Selected: i == s.cursor}
		if st.Tag == color.None {
			st.Tag = color.Default
		}
		drawCentered(scr, top+2+i-first, " "+o.label+" ", st)
	}
}
