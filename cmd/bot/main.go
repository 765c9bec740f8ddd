package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"session-ready/internal/auth"
	"session-ready/internal/config"
	"session-ready/internal/live"
	"session-ready/internal/pending"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/scheduler"
	"session-ready/internal/storage"
	"session-ready/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("failed to parse config: %v", &config.ConfigurationError{Key: "TELEGRAM_BOT_TOKEN", Reason: "required for the bot"})
	}

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		repo, err := auth.NewFileRepository(cfg.AllowlistFilePath)
		if err != nil {
			log.Printf("failed to init allowlist repo: %v", err)
		} else {
			allowRepo = repo
		}
	}

	initial := cfg.AllowedUsers
	if cfg.AdminUserID != 0 {
		initial = append(initial, cfg.AdminUserID)
	}
	authSvc, err := auth.NewWithRepo(allowRepo, initial)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	var pendingRepo pending.Repository
	if cfg.PendingFilePath != "" {
		repo, err := pending.NewFileRepository(cfg.PendingFilePath)
		if err != nil {
			log.Printf("failed to init pending repo: %v", err)
		} else {
			pendingRepo = repo
		}
	}

	var custom []persona.Persona
	if cfg.PersonasFilePath != "" {
		custom, err = persona.LoadFile(cfg.PersonasFilePath, nil)
		if err != nil {
			log.Fatalf("failed to load personas: %v", err)
		}
		log.Printf("loaded %d personas from %s", len(custom), cfg.PersonasFilePath)
	}

	loc, err := prompt.ParseLocale(cfg.Locale, cfg.TimeZone)
	if err != nil {
		log.Fatalf("failed to parse locale: %v", err)
	}

	var rec storage.Recorder
	if cfg.TranscriptLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.TranscriptLogPath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(cfg.TelegramBotToken, telegram.Deps{
		Auth:        authSvc,
		AdminID:     cfg.AdminUserID,
		Pending:     pendingRepo,
		Personas:    persona.ListBuiltins(),
		Custom:      custom,
		NewLive:     func() (live.Client, error) { return live.NewFromConfig(cfg) },
		Locale:      loc,
		Model:       live.ModelFor(cfg),
		Recorder:    rec,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	defer bot.Close()

	sched := scheduler.New()
	if err := sched.Every(cfg.SweepSchedule, "idle session sweep", bot.Sweep); err != nil {
		log.Fatalf("failed to schedule sweep: %v", err)
	}
	if err := sched.Every(cfg.ReportSchedule, "daily practice report", bot.DailyReport); err != nil {
		log.Fatalf("failed to schedule report: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("practice bot running with provider %s", cfg.LiveProvider)
	bot.Start(ctx)
}
