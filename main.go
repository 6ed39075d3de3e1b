package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/tempo/internal/config"
	"github.com/sadopc/tempo/internal/store"
	"github.com/sadopc/tempo/internal/storage"
	"github.com/sadopc/tempo/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.DataDir == "" {
		cfg.DataDir, err = config.DefaultDataDir()
		if err != nil {
			return err
		}
	}

	files, err := storage.NewDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open data dir: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "tempo.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	seed := store.CategoryConfig{
		Categories:      cfg.Categories,
		DefaultCategory: cfg.DefaultCategory,
	}
	s, err := store.Open(files, seed, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	app := tui.NewApp(s, &cfg, cfgPath)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
