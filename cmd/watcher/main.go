package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/config"
	"github.com/SheenyxX/Trading-Project/internal/pipeline"
)

// watcher runs the daily classification on a cron schedule, so the snapshot
// and the historical table stay current without manual runs.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	p, rec, err := pipeline.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		if err := p.Run(ctx); err != nil {
			log.Error().Err(err).Str("symbol", cfg.Symbol).Msg("Scheduled run failed")
		}
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Schedule.DailyCron, runOnce); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Schedule.DailyCron).Msg("Failed to register daily task")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		runOnce()
	}

	c.Start()
	log.Info().Str("cron", cfg.Schedule.DailyCron).Msg("Watcher started")

	<-ctx.Done()
	c.Stop()
	log.Info().Msg("Watcher stopped")
}
