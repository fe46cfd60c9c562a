package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focuslog/internal/stats"
)

// --- Messages ---

type tickMsg time.Time

// idleMsg fires when no key has arrived for the idle threshold. Stale
// generations are ignored.
type idleMsg struct {
	gen int
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// --- Notices ---

const (
	noticeNoCategories   = "No categories to manage yet. Add one first."
	noticeDeleteCanceled = "Deletion canceled."
	noticeCategoryGone   = "Category deleted."
	noticeFocusGone      = "Focus deleted."
	noticeStatsReset     = "All statistics reset successfully!"
	noticeAllDeleted     = "All categories, focuses, and statistics deleted!"
	noticePrefsSaved     = "Preferences saved."
	pressAnyKey          = "Press any key to continue..."
)

// --- Helpers ---

func formatSeconds(secs int64) string {
	return stats.FormatDuration(secs)
}

func formatDuration(d time.Duration) string {
	return stats.FormatDuration(int64(d / time.Second))
}
