package main

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	idcolor "github.com/sadopc/focuslog/internal/color"
	"github.com/sadopc/focuslog/internal/config"
	"github.com/sadopc/focuslog/internal/settings"
	"github.com/sadopc/focuslog/internal/store"
	"github.com/sadopc/focuslog/internal/tui"
	"github.com/sadopc/focuslog/internal/worklog"
)

func main() {
	if err := run(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Debug {
		f, err := tea.LogToFile(cfg.DebugLogPath(), "focuslog")
		if err != nil {
			return err
		}
		defer f.Close()
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	prefs, err := settings.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer prefs.Close()

	log := worklog.Open(cfg.WorkLogPath())
	s, err := store.Load(cfg.CategoriesPath(), idcolor.NewAllocator(), log)
	if err != nil {
		return err
	}
	slog.Info("starting", "dir", cfg.Dir, "categories", s.Len())

	app := tui.NewApp(s, log, prefs, cfg.Dir)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
