package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docsummary/internal/config"
	"docsummary/internal/journal"
	"docsummary/internal/language"
	"docsummary/internal/ratelimiter"
	"docsummary/internal/scheduler"
	"docsummary/internal/server"
	"docsummary/internal/summarizer"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the summarize HTTP API",
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	log := newLogger(c, os.Stdout)
	start := time.Now()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return err
	}
	gin.SetMode(cfg.Mode)

	extractors, err := newExtractorSet(cfg.ExtractionMode, cfg.TesseractPath)
	if err != nil {
		return err
	}

	var j server.Journal
	if cfg.JournalPath != "" {
		jr, closeJournal, err := initJournal(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeJournal()

		j = jr
	} else {
		log.InfoContext(ctx, "JOURNAL_PATH is empty so requests are not journaled",
			"envVar", "JOURNAL_PATH")
	}

	model := initModel(ctx, cfg, log)
	handler := server.NewHandler(summarizer.New(model, log), extractors, j, language.NewDetector(), log)

	var limiter *ratelimiter.RateLimiter
	if cfg.RateLimitInterval > 0 {
		limiter = ratelimiter.New(cfg.RateLimitInterval, log)
	}

	srv := server.New(cfg.Addr, server.NewRouter(cfg.APIKey, limiter, handler, log), log)

	log.InfoContext(ctx, "Server is initialized",
		"addr", cfg.Addr,
		"mode", cfg.Mode,
		"extractionMode", cfg.ExtractionMode,
		"apiKeyRequired", cfg.APIKey != "",
		"rateLimitInterval", cfg.RateLimitInterval.String())

	err = srv.Run(ctx)

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())

	return err
}

func initJournal(ctx context.Context, cfg config.Config, log *slog.Logger) (*journal.Journal, func(), error) {
	j, err := journal.New(ctx, cfg.JournalPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize journal",
			"error", err,
			"journalPath", cfg.JournalPath)

		return nil, nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoContext(ctx, "Journal is initialized",
		"journalPath", cfg.JournalPath,
		"schemaVersion", j.SchemaVersion())

	sched := scheduler.New(ctx, j, cfg.JournalRetention, log)
	timezone := time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String()

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.HourlyPruneSpec,
			"timezone", timezone)

		if closeErr := j.Close(); closeErr != nil {
			log.ErrorContext(ctx, "Failed to close journal",
				"error", closeErr,
				"journalPath", cfg.JournalPath)
		}

		return nil, nil, fmt.Errorf("start scheduler: %w", err)
	}
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HourlyPruneSpec,
		"timezone", timezone,
		"retention", cfg.JournalRetention.String())

	closeJournal := func() {
		sched.Stop()
		log.InfoContext(ctx, "Scheduler is stopped")

		if err := j.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close journal",
				"error", err,
				"journalPath", cfg.JournalPath)
		}
	}

	return j, closeJournal, nil
}

func initModel(ctx context.Context, cfg config.Config, log *slog.Logger) summarizer.Model {
	if cfg.OpenAIAPIKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so summarize requests will fail",
			"envVar", "OPENAI_API_KEY")

		return summarizer.Unavailable{}
	}

	m, err := summarizer.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI model so summarize requests will fail",
			"error", err,
			"envVar", "OPENAI_API_KEY")

		return summarizer.Unavailable{Err: err}
	}

	log.InfoContext(ctx, "OpenAI model is initialized",
		"provider", "openai",
		"model", cfg.OpenAIModel)

	return m
}
