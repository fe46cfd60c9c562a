package tui

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/stats"
)

const chartBars = 8

// statRow is one line of the statistics table.
type statRow struct {
	label    string
	tag      color.ID
	total    int64
	sessions int
	header   bool
}

type statsFrame struct {
	rows   []statRow
	top    []stats.FocusStat
	tags   map[[2]string]color.ID
	total  int64
	offset int

	chart      barchart.Model
	chartWidth int
}

func newStatsFrame(a *App, st *stats.Stats) *statsFrame {
	f := &statsFrame{
		tags:  make(map[[2]string]color.ID),
		total: st.Total(),
		top:   st.TopN(chartBars),
	}

	known := make(map[[2]string]bool)
	for _, c := range a.store.Categories() {
		f.rows = append(f.rows, statRow{
			label:  c.Name,
			tag:    c.ColorID,
			total:  st.Category(c.Name).Total(),
			header: true,
		})
		for _, fc := range c.Focuses {
			k := [2]string{c.Name, fc.Name}
			known[k] = true
			f.tags[k] = fc.ColorID
			g, _ := st.Lookup(c.Name, fc.Name)
			f.rows = append(f.rows, statRow{
				label:    fc.Name,
				tag:      fc.ColorID,
				total:    g.Total,
				sessions: g.Sessions,
			})
		}
	}

	// groups whose category or focus was removed from the store
	for _, c := range st.Categories() {
		var orphans []stats.FocusStat
		for _, g := range c.Focuses {
			if !known[[2]string{g.Category, g.Focus}] {
				orphans = append(orphans, g)
			}
		}
		if len(orphans) == 0 {
			continue
		}
		f.rows = append(f.rows, statRow{label: c.Name + " (not in categories)", tag: color.Default, header: true})
		for _, g := range orphans {
			f.rows = append(f.rows, statRow{label: g.Focus, tag: color.Default, total: g.Total, sessions: g.Sessions})
		}
	}
	return f
}

func (f *statsFrame) update(a *App, msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(k, keys.Back), key.Matches(k, keys.Enter):
		a.pop()
	case key.Matches(k, keys.Up):
		if f.offset > 0 {
			f.offset--
		}
	case key.Matches(k, keys.Down):
		if f.offset < len(f.rows)-1 {
			f.offset++
		}
	}
	return nil
}

func (f *statsFrame) buildChart(width, height int) {
	f.chart = barchart.New(width, height)
	var bars []barchart.BarData
	for _, g := range f.top {
		tag, ok := f.tags[[2]string{g.Category, g.Focus}]
		if !ok {
			tag = color.Default
		}
		bars = append(bars, barchart.BarData{
			Label: truncate.StringWithTail(g.Focus, 8, "…"),
			Values: []barchart.BarValue{{
				Name:  g.Focus,
				Value: float64(g.Total) / 60,
				Style: lipglossStyle(Style{Tag: tag}),
			}},
		})
	}
	f.chart.PushAll(bars)
	f.chart.Draw()
	f.chartWidth = width
}

func (f *statsFrame) view(_ *App, width, height int) string {
	w := width - 4
	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Statistics"),
		mutedStyle.Render("  total "+formatSeconds(f.total)),
	)

	if len(f.rows) == 0 && len(f.top) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No sessions logged yet."))
		return panelStyle.Width(w).Render(body)
	}

	var parts []string
	parts = append(parts, title, "")

	tableHeight := height - 6
	if len(f.top) > 0 && height >= 24 {
		chartHeight := min(10, height/3)
		if f.chartWidth != w-6 {
			f.buildChart(w-6, chartHeight)
		}
		parts = append(parts, f.chart.View(), mutedStyle.Render("minutes per focus"), "")
		tableHeight -= chartHeight + 2
	}

	parts = append(parts, renderCanvas(w-6, max(tableHeight, 1), f.drawTable))
	parts = append(parts, "", mutedStyle.Render("↑/↓: scroll  esc: back"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (f *statsFrame) drawTable(scr Screen) {
	rows, cols := scr.Size()
	scr.DrawText(0, 0, "Name", styleMuted)
	drawRight(scr, 0, cols-10, "Duration", styleMuted)
	drawRight(scr, 0, cols, "Sessions", styleMuted)

	for i := 1; i < rows && f.offset+i-1 < len(f.rows); i++ {
		r := f.rows[f.offset+i-1]
		if r.header {
			scr.DrawText(i, 0, r.label, Style{Tag: r.tag, Bold: true})
			drawRight(scr, i, cols-10, formatSeconds(r.total), Style{Tag: r.tag, Bold: true})
			continue
		}
		scr.DrawText(i, 2, r.label, Style{Tag: r.tag})
		drawRight(scr, i, cols-10, formatSeconds(r.total), stylePlain)
		drawRight(scr, i, cols, fmt.Sprintf("%d", r.sessions), stylePlain)
	}
}

// drawRight writes text so that it ends just before column end.
func drawRight(scr Screen, row, end int, text string, st Style) {
	scr.DrawText(row, end-runewidth.StringWidth(text), text, st)
}
