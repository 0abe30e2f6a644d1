package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/config"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/logger"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/reminder"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/storage"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/syllabus"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agenda failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "agenda.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = config.FromEnv(cfg)

	log, closeLog := logger.Open(cfg.Log.Path, cfg.Log.Level)
	defer closeLog()

	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := storage.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		return err
	}

	engine := reminder.NewEngine(time.Duration(cfg.Reminder.LeadMinutes)*time.Minute, 64)
	engine.Start()
	defer engine.Stop()
	if err := scheduleExisting(repo, engine); err != nil {
		log.Warn().Err(err).Msg("could not schedule reminders for stored events")
	}

	client := syllabus.NewClient(cfg.Gemini, log)

	model := update.NewModel(update.Deps{
		Repo:      repo,
		Extractor: client,
		Reminders: engine,
		Log:       log,
		Location:  time.Local,
		DayCap:    cfg.Calendar.DayCap,
	})

	log.Info().Str("db", cfg.Database.Path).Msg("starting agenda")
	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// scheduleExisting arms reminders for events that are still ahead.
func scheduleExisting(repo storage.Repository, engine *reminder.Engine) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	events, err := repo.ListEvents(ctx, storage.EventListFilter{From: &now})
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := engine.ScheduleEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
