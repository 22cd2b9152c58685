package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"github.com/grovehq/grove/internal/config"
	"github.com/grovehq/grove/internal/logutil"
	"github.com/grovehq/grove/internal/scheduler"
	"github.com/grovehq/grove/internal/storage"
	"github.com/grovehq/grove/internal/store"
	"github.com/grovehq/grove/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "grove failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	cfg, err := config.LoadOrCreate(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logutil.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := storage.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	persister := storage.NewGoalPersister(repo)

	goals, loadErrs := persister.LoadAll(context.Background())
	for _, lerr := range loadErrs {
		log.Warn().Err(lerr).Msg("goal not restored")
	}

	s := store.New(store.WithPersister(persister), store.WithLogger(log))
	s.Load(goals)

	engine := scheduler.NewEngine(64)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Deps{
		Store:     s,
		Drafts:    storage.NewDraftStage(repo),
		Scheduler: engine,
		Log:       log,
		Keys:      cfg.Keys,
	})
	if cfg.DefaultView == "calendar" {
		m.CurrentView = update.ViewCalendar
	}

	log.Info().Int("goals", len(goals)).Str("db", cfg.DBPath).Msg("grove starting")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
