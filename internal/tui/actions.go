package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/export"
	"github.com/sadopc/focuslog/internal/session"
	"github.com/sadopc/focuslog/internal/stats"
	"github.com/sadopc/focuslog/internal/store"
)

// ============================================================
// Create prompts
// ============================================================

// promptCategory asks for a new category name. then receives the new index
// once the category exists; cancelling returns to the list underneath.
func (a *App) promptCategory(then func(a *App, idx int) tea.Cmd) tea.Cmd {
	return a.push(newPrompt("New category name:", 0, func(a *App, value string) tea.Cmd {
		idx, err := a.store.CreateCategory(value)
		retry := func(a *App) tea.Cmd { return a.promptCategory(then) }
		return a.afterCreate("category", idx, err, retry, then)
	}))
}

func (a *App) promptFocus(cat int, then func(a *App, idx int) tea.Cmd) tea.Cmd {
	label := fmt.Sprintf("New focus name for %s:", a.categoryName(cat))
	return a.push(newPrompt(label, 0, func(a *App, value string) tea.Cmd {
		idx, err := a.store.CreateFocus(cat, value)
		retry := func(a *App) tea.Cmd { return a.promptFocus(cat, then) }
		return a.afterCreate("focus", idx, err, retry, then)
	}))
}

func (a *App) afterCreate(kind string, idx int, err error, retry func(a *App) tea.Cmd, then func(a *App, idx int) tea.Cmd) tea.Cmd {
	var verr *store.ValidationError
	var perr *store.PersistenceError
	switch {
	case errors.As(err, &verr):
		return a.notice(describeInvalid(kind, verr), color.Warning, retry)
	case errors.Is(err, store.ErrCapacityExceeded):
		limit := store.MaxCategories
		if kind == "focus" {
			limit = store.MaxFocuses
		}
		return a.notice(fmt.Sprintf("Cannot add more than %d %s entries.", limit, kind), color.Warning, nil)
	case errors.As(err, &perr):
		// the item exists in memory; the next successful save persists it
		slog.Error("save after create", "kind", kind, "err", err)
		a.setStatus("Could not save: "+perr.Error(), true)
	case err != nil:
		return a.notice("Error: "+err.Error(), color.Warning, nil)
	}
	if then == nil {
		return nil
	}
	return then(a, idx)
}

func describeInvalid(kind string, err *store.ValidationError) string {
	switch {
	case errors.Is(err, store.ErrEmptyName):
		return "Name cannot be empty."
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Sprintf("The %s '%s' already exists.", kind, err.Name)
	case errors.Is(err, store.ErrNameTooLong):
		return fmt.Sprintf("Name is too long (max %d characters).", store.MaxNameLen)
	}
	return "Invalid name: " + err.Error()
}

// ============================================================
// Sessions
// ============================================================

func (a *App) promptDuration(cat, focus int) tea.Cmd {
	def := int(a.prefs.DefaultDuration / time.Minute)
	label := fmt.Sprintf("Duration in minutes (default %d):", def)
	return a.push(newPrompt(label, 6, func(a *App, value string) tea.Cmd {
		value = strings.TrimSpace(value)
		if value == "" {
			return a.startSession(cat, focus, int(a.prefs.DefaultDuration/time.Second))
		}
		mins, err := strconv.Atoi(value)
		if err != nil || mins <= 0 {
			return a.notice(fmt.Sprintf("Invalid duration. Using default %d minutes.", def), color.Warning,
				func(a *App) tea.Cmd {
					return a.startSession(cat, focus, int(a.prefs.DefaultDuration/time.Second))
				})
		}
		return a.startSession(cat, focus, mins*60)
	}))
}

// startSession replaces the navigation stack with a running countdown.
func (a *App) startSession(cat, focus, seconds int) tea.Cmd {
	c, ok := a.store.Category(cat)
	if !ok || focus < 0 || focus >= len(c.Focuses) {
		a.resetToMain()
		return a.notice("That focus no longer exists.", color.Warning, nil)
	}
	f := c.Focuses[focus]
	timer := session.Start(a.log, c.Name, f.Name, seconds, a.clock)
	slog.Info("session started", "category", c.Name, "focus", f.Name, "seconds", seconds)

	a.resetToMain()
	return a.push(newSessionFrame(timer, c.ColorID, f.ColorID))
}

// ============================================================
// Destructive actions
// ============================================================

func (a *App) deleteCategory(idx int) tea.Cmd {
	before := a.store.Len()
	err := a.store.DeleteCategory(idx)
	if a.store.Len() == before {
		return a.notice("Could not delete category: "+errString(err), color.Warning, nil)
	}
	if err != nil {
		a.setStatus("Could not save: "+err.Error(), true)
	}
	a.pop()
	if m, ok := a.top().(*menuFrame); ok && m.id == menuManageCategories && a.store.Len() == 0 {
		a.pop()
	}
	return a.notice(noticeCategoryGone, color.Highlight, nil)
}

func (a *App) deleteFocus(cat, idx int) tea.Cmd {
	before := a.focusCount(cat)
	err := a.store.DeleteFocus(cat, idx)
	if a.focusCount(cat) == before {
		return a.notice("Could not delete focus: "+errString(err), color.Warning, nil)
	}
	if err != nil {
		a.setStatus("Could not save: "+err.Error(), true)
	}
	a.pop()
	return a.notice(noticeFocusGone, color.Highlight, nil)
}

func (a *App) resetStats() tea.Cmd {
	if err := a.log.ResetAll(); err != nil {
		return a.notice("Could not reset statistics: "+err.Error(), color.Warning, nil)
	}
	return a.notice(noticeStatsReset, color.Highlight, nil)
}

func (a *App) deleteAll() tea.Cmd {
	if err := a.store.DeleteAll(); err != nil {
		return a.notice("Could not delete everything: "+err.Error(), color.Warning, nil)
	}
	return a.notice(noticeAllDeleted, color.Highlight, nil)
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// ============================================================
// Statistics
// ============================================================

func (a *App) openStats() tea.Cmd {
	st, err := stats.FromLog(a.log)
	if err != nil {
		return a.notice("Could not read the work log: "+err.Error(), color.Warning, nil)
	}
	return a.push(newStatsFrame(a, st))
}

func (a *App) exportStats(f export.Format) tea.Cmd {
	log, dir, now := a.log, a.exportDir, a.clock.Now()
	return func() tea.Msg {
		st, err := stats.FromLog(log)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := export.Path(dir, f, now)
		if err := export.Write(f, st.Groups(), path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
