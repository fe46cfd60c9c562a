package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/stats"
)

// idleScheduler turns keyboard silence into idleMsg events. Every reset
// starts a new generation so ticks armed before the last key are ignored.
type idleScheduler struct {
	gen     int
	timeout time.Duration
}

func (s *idleScheduler) reset() tea.Cmd {
	s.gen++
	if s.timeout <= 0 {
		return nil
	}
	gen := s.gen
	return tea.Tick(s.timeout, func(time.Time) tea.Msg {
		return idleMsg{gen: gen}
	})
}

func (s *idleScheduler) fired(msg idleMsg) bool {
	return msg.gen == s.gen
}

const (
	overlayTitle    = "Current Focus Distribution"
	overlayTopN     = 3
	unknownCategory = "Unknown Category"
)

// overlay is the idle summary drawn over the menu until the next key.
type overlay struct {
	now    time.Time
	total  int64
	groups []overlayGroup
	top    []overlayGroup
}

type overlayGroup struct {
	category string
	focus    string
	tag      color.ID
	total    int64
}

func newOverlay(a *App) *overlay {
	o := &overlay{now: a.clock.Now()}
	st, err := stats.FromLog(a.log)
	if err != nil {
		slog.Debug("idle overlay: read work log", "err", err)
		return o
	}

	resolve := func(g stats.FocusStat) overlayGroup {
		og := overlayGroup{category: unknownCategory, focus: g.Focus, tag: color.Default, total: g.Total}
		if i := a.store.CategoryIndex(g.Category); i >= 0 {
			c, _ := a.store.Category(i)
			og.category = c.Name
			if j := c.FocusIndex(g.Focus); j >= 0 {
				og.tag = c.Focuses[j].ColorID
			}
		}
		return og
	}
	for _, g := range st.Groups() {
		if g.Total > 0 {
			o.groups = append(o.groups, resolve(g))
		}
	}
	for _, g := range st.TopN(overlayTopN) {
		o.top = append(o.top, resolve(g))
	}
	o.total = st.Total()
	return o
}

func (o *overlay) view(width, height int) string {
	return renderCanvas(width, height, o.draw)
}

func (o *overlay) draw(scr Screen) {
	rows, cols := scr.Size()
	top := max((rows-(8+len(o.top)))/2, 0)

	drawCentered(scr, top, overlayTitle, styleTitle)
	drawCentered(scr, top+1, o.now.Format("15:04"), styleHighlight)

	if o.total <= 0 {
		drawCentered(scr, top+3, "No sessions logged yet.", styleMuted)
		return
	}

	barWidth := max(min(cols-8, 60), len(o.groups))
	left := (cols - barWidth) / 2
	for i, seg := range o.segments(barWidth) {
		scr.DrawText(top+3, left+seg.start, strings.Repeat("█", seg.width), Style{Tag: o.groups[i].tag})
	}

	scr.DrawText(top+5, left, "Top focuses:", styleMuted)
	for i, g := range o.top {
		pct := float64(g.total) * 100 / float64(o.total)
		line := fmt.Sprintf("%d. %s / %s  %s (%.0f%%)", i+1, g.category, g.focus, formatSeconds(g.total), pct)
		scr.DrawText(top+6+i, left, line, Style{Tag: g.tag})
	}
}

type segment struct{ start, width int }

// segments splits width cells proportionally between groups. Every group
// gets at least one cell; the largest groups give up cells to pay for that.
func (o *overlay) segments(width int) []segment {
	out := make([]segment, len(o.groups))
	used := 0
	for i, g := range o.groups {
		w := int(float64(g.total) * float64(width) / float64(o.total))
		out[i].width = max(w, 1)
		used += out[i].width
	}
	for used > width {
		big := 0
		for i := range out {
			if out[i].width > out[big].width {
				big = i
			}
		}
		if out[big].width <= 1 {
			break
		}
		out[big].width--
		used--
	}
	// rounding leftovers go to the last segment
	if used < width && len(out) > 0 {
		out[len(out)-1].width += width - used
	}
	pos := 0
	for i := range out {
		out[i].start = pos
		pos += out[i].width
	}
	return out
}
