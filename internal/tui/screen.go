package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/sadopc/focuslog/internal/color"
)

// Style selects how a run of text is drawn. Tag is either one of the
// system tags or a category/focus colour id.
type Style struct {
	Tag      color.ID
	Selected bool
	Bold     bool
	Muted    bool
}

var (
	stylePlain     = Style{Tag: color.Default}
	styleTitle     = Style{Tag: color.Title, Bold: true}
	styleWarning   = Style{Tag: color.Warning, Bold: true}
	styleHighlight = Style{Tag: color.Highlight}
	styleMuted     = Style{Muted: true}
)

// Screen is the drawing surface frames render onto.
type Screen interface {
	Clear()
	DrawText(row, col int, text string, st Style)
	Size() (rows, cols int)
}

type cell struct {
	r     rune
	st    Style
	cont  bool // second half of a wide rune
	blank bool
}

// canvas is a fixed-size cell buffer rendered through lipgloss.
type canvas struct {
	rows, cols int
	cells      [][]cell
}

func newCanvas(rows, cols int) *canvas {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	c := &canvas{rows: rows, cols: cols}
	c.Clear()
	return c
}

func (c *canvas) Size() (int, int) { return c.rows, c.cols }

func (c *canvas) Clear() {
	c.cells = make([][]cell, c.rows)
	for i := range c.cells {
		row := make([]cell, c.cols)
		for j := range row {
			row[j] = cell{r: ' ', blank: true}
		}
		c.cells[i] = row
	}
}

// DrawText writes text starting at (row, col). Text past the right edge is
// cut with an ellipsis; rows outside the canvas are ignored.
func (c *canvas) DrawText(row, col int, text string, st Style) {
	if row < 0 || row >= c.rows || col >= c.cols {
		return
	}
	if col < 0 {
		col = 0
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if runewidth.StringWidth(text) > c.cols-col {
		text = truncate.StringWithTail(text, uint(c.cols-col), "…")
	}
	x := col
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.cols {
			break
		}
		c.cells[row][x] = cell{r: r, st: st}
		if w == 2 {
			c.cells[row][x+1] = cell{cont: true, st: st}
		}
		x += w
	}
}

// drawCentered writes text horizontally centred on row.
func drawCentered(scr Screen, row int, text string, st Style) {
	_, cols := scr.Size()
	col := (cols - runewidth.StringWidth(text)) / 2
	scr.DrawText(row, col, text, st)
}

// Render joins runs of equally styled cells and styles each run once.
func (c *canvas) Render() string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var cur Style
		curBlank := true
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if curBlank {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipglossStyle(cur).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			if cl.blank != curBlank || (!cl.blank && cl.st != cur) {
				flush()
				cur, curBlank = cl.st, cl.blank
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// lipglossStyle resolves a Style against the palette.
func lipglossStyle(st Style) lipgloss.Style {
	var s lipgloss.Style
	switch st.Tag {
	case color.Title:
		s = titleStyle
	case color.Highlight:
		s = highlightStyle
	case color.Warning:
		s = errorStyle
	case color.None, color.Default:
		s = normalItemStyle
	default:
		s = tagStyle(st.Tag)
	}
	if st.Muted {
		s = mutedStyle
	}
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Selected {
		s = s.Reverse(true).Bold(true)
	}
	return s
}

// tagStyle is the foreground style of a category/focus colour id.
func tagStyle(id color.ID) lipgloss.Style {
	hex := color.Reconstruct(id).Hue.Hex()
	if hex == "" {
		return normalItemStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
