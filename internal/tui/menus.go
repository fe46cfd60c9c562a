package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/export"
)

type menuID int

const (
	menuMain menuID = iota
	menuCategorySelect
	menuFocusSelect
	menuSettings
	menuManageCategories
	menuManageFocuses
	menuFocusActions
	menuExport
)

// navCtx carries the category/focus a menu operates on.
type navCtx struct {
	cat   int
	focus int
}

// menuSpec describes one menu: its title, its options (rebuilt on every
// key and render so they always reflect the store) and what a choice does.
// A nil cancel pops back to the parent.
type menuSpec struct {
	title   func(a *App, ctx navCtx) string
	options func(a *App, ctx navCtx) []option
	choose  func(a *App, ctx navCtx, idx int) tea.Cmd
	cancel  func(a *App, ctx navCtx) tea.Cmd
}

func fixedTitle(s string) func(*App, navCtx) string {
	return func(*App, navCtx) string { return s }
}

func fixedOptions(opts ...option) func(*App, navCtx) []option {
	return func(*App, navCtx) []option { return opts }
}

const (
	labelAddCategory    = "+ Add New Category"
	labelAddFocus       = "+ Add New Focus"
	labelDeleteCategory = "Delete This Category"
	labelDeleteFocus    = "Delete This Focus"
	labelBack           = "Back"
)

var menus map[menuID]menuSpec

func init() {
	menus = map[menuID]menuSpec{
		menuMain: {
			title: fixedTitle("FocusLog"),
			options: fixedOptions(
				option{label: "Start Work"},
				option{label: "View Statistics"},
				option{label: "Settings"},
				option{label: "Exit"},
			),
			choose: func(a *App, _ navCtx, idx int) tea.Cmd {
				switch idx {
				case 0:
					return a.pushMenu(menuCategorySelect, navCtx{})
				case 1:
					return a.openStats()
				case 2:
					return a.pushMenu(menuSettings, navCtx{})
				}
				return a.quit()
			},
			// the root has no parent
			cancel: func(*App, navCtx) tea.Cmd { return nil },
		},

		menuCategorySelect: {
			title: fixedTitle("Select Category"),
			options: func(a *App, _ navCtx) []option {
				return append(a.categoryOptions(), option{label: labelAddCategory})
			},
			choose: func(a *App, _ navCtx, idx int) tea.Cmd {
				if idx < a.store.Len() {
					return a.pushMenu(menuFocusSelect, navCtx{cat: idx})
				}
				return a.promptCategory(func(a *App, cat int) tea.Cmd {
					return a.pushMenu(menuFocusSelect, navCtx{cat: cat})
				})
			},
		},

		menuFocusSelect: {
			title: func(a *App, ctx navCtx) string {
				return "Select Focus for " + a.categoryName(ctx.cat)
			},
			options: func(a *App, ctx navCtx) []option {
				return append(a.focusOptions(ctx.cat), option{label: labelAddFocus})
			},
			choose: func(a *App, ctx navCtx, idx int) tea.Cmd {
				if idx < a.focusCount(ctx.cat) {
					return a.promptDuration(ctx.cat, idx)
				}
				return a.promptFocus(ctx.cat, func(a *App, focus int) tea.Cmd {
					return a.promptDuration(ctx.cat, focus)
				})
			},
		},

		menuSettings: {
			title: fixedTitle("Settings"),
			options: fixedOptions(
				option{label: "Add New Category"},
				option{label: "Manage Categories & Focuses"},
				option{label: "Preferences"},
				option{label: "Export Statistics"},
				option{label: "Reset All Statistics", tag: color.Warning},
				option{label: "Delete All Categories & Focuses", tag: color.Warning},
				option{label: labelBack},
			),
			choose: func(a *App, _ navCtx, idx int) tea.Cmd {
				switch idx {
				case 0:
					return a.promptCategory(func(a *App, cat int) tea.Cmd {
						return a.pushMenu(menuManageFocuses, navCtx{cat: cat})
					})
				case 1:
					if a.store.Len() == 0 {
						return a.notice(noticeNoCategories, color.Highlight, nil)
					}
					return a.pushMenu(menuManageCategories, navCtx{})
				case 2:
					return a.push(newPreferencesFrame(a.prefs))
				case 3:
					return a.pushMenu(menuExport, navCtx{})
				case 4:
					return a.confirmTwice(
						"Are you sure you want to reset ALL statistics?",
						"This action cannot be undone. REALLY sure?",
						(*App).resetStats, nil)
				case 5:
					return a.confirmTwice(
						"Are you sure you want to delete ALL categories and focuses?",
						"This will also reset ALL statistics. REALLY sure?",
						(*App).deleteAll, nil)
				}
				a.pop()
				return nil
			},
		},

		menuManageCategories: {
			title: fixedTitle("Manage Categories"),
			options: func(a *App, _ navCtx) []option {
				return append(a.categoryOptions(), option{label: labelBack})
			},
			choose: func(a *App, _ navCtx, idx int) tea.Cmd {
				if idx < a.store.Len() {
					return a.pushMenu(menuManageFocuses, navCtx{cat: idx})
				}
				a.pop()
				return nil
			},
		},

		menuManageFocuses: {
			title: func(a *App, ctx navCtx) string {
				return "Manage " + a.categoryName(ctx.cat)
			},
			options: func(a *App, ctx navCtx) []option {
				return append(a.focusOptions(ctx.cat),
					option{label: labelAddFocus},
					option{label: labelDeleteCategory, tag: color.Warning},
					option{label: labelBack},
				)
			},
			choose: func(a *App, ctx navCtx, idx int) tea.Cmd {
				n := a.focusCount(ctx.cat)
				switch {
				case idx < n:
					return a.pushMenu(menuFocusActions, navCtx{cat: ctx.cat, focus: idx})
				case idx == n:
					return a.promptFocus(ctx.cat, nil)
				case idx == n+1:
					name := a.categoryName(ctx.cat)
					return a.confirmTwice(
						fmt.Sprintf("Are you sure you want to delete category '%s' and all its focuses?", name),
						"This will also delete all associated statistics. REALLY sure?",
						func(a *App) tea.Cmd { return a.deleteCategory(ctx.cat) },
						deletionCanceled)
				}
				a.pop()
				return nil
			},
		},

		menuFocusActions: {
			title: func(a *App, ctx navCtx) string {
				return "Focus: " + a.focusName(ctx.cat, ctx.focus)
			},
			options: fixedOptions(
				option{label: labelDeleteFocus, tag: color.Warning},
				option{label: labelBack},
			),
			choose: func(a *App, ctx navCtx, idx int) tea.Cmd {
				if idx == 0 {
					name := a.focusName(ctx.cat, ctx.focus)
					return a.confirmTwice(
						fmt.Sprintf("Are you sure you want to delete focus '%s'?", name),
						"This will also delete all associated statistics. REALLY sure?",
						func(a *App) tea.Cmd { return a.deleteFocus(ctx.cat, ctx.focus) },
						deletionCanceled)
				}
				a.pop()
				return nil
			},
		},

		menuExport: {
			title: fixedTitle("Export Format"),
			options: func(*App, navCtx) []option {
				opts := make([]option, 0, len(export.Formats))
				for _, f := range export.Formats {
					opts = append(opts, option{label: f.String()})
				}
				return opts
			},
			choose: func(a *App, _ navCtx, idx int) tea.Cmd {
				a.pop()
				return a.exportStats(export.Formats[idx])
			},
		},
	}
}

// ============================================================
// Menu frame
// ============================================================

type menuFrame struct {
	id  menuID
	ctx navCtx
	sel selectModel
}

func (a *App) pushMenu(id menuID, ctx navCtx) tea.Cmd {
	spec := menus[id]
	return a.push(&menuFrame{
		id:  id,
		ctx: ctx,
		sel: newSelect(spec.title(a, ctx), spec.options(a, ctx), 0),
	})
}

func (m *menuFrame) refresh(a *App) {
	spec := menus[m.id]
	m.sel.title = spec.title(a, m.ctx)
	m.sel.setOptions(spec.options(a, m.ctx))
}

func (m *menuFrame) update(a *App, msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	m.refresh(a)
	choice, done := m.sel.update(k)
	if !done {
		return nil
	}
	spec := menus[m.id]
	if choice < 0 {
		if spec.cancel != nil {
			return spec.cancel(a, m.ctx)
		}
		a.pop()
		return nil
	}
	return spec.choose(a, m.ctx, choice)
}

func (m *menuFrame) view(a *App, width, height int) string {
	m.refresh(a)
	return renderCanvas(width, height, m.sel.draw)
}

// ============================================================
// Store lookups
// ============================================================

func (a *App) categoryOptions() []option {
	cats := a.store.Categories()
	opts := make([]option, 0, len(cats)+1)
	for _, c := range cats {
		opts = append(opts, option{label: c.Name, tag: c.ColorID})
	}
	return opts
}

func (a *App) focusOptions(cat int) []option {
	c, ok := a.store.Category(cat)
	if !ok {
		return nil
	}
	opts := make([]option, 0, len(c.Focuses)+3)
	for _, f := range c.Focuses {
		opts = append(opts, option{label: f.Name, tag: f.ColorID})
	}
	return opts
}

func (a *App) categoryName(cat int) string {
	c, _ := a.store.Category(cat)
	return c.Name
}

func (a *App) focusCount(cat int) int {
	c, _ := a.store.Category(cat)
	return len(c.Focuses)
}

func (a *App) focusName(cat, focus int) string {
	c, _ := a.store.Category(cat)
	if focus < 0 || focus >= len(c.Focuses) {
		return ""
	}
	return c.Focuses[focus].Name
}
