package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/api/binance"
	"github.com/SheenyxX/Trading-Project/internal/config"
	"github.com/SheenyxX/Trading-Project/internal/notifier"
	"github.com/SheenyxX/Trading-Project/internal/recorder"
)

// Build wires a pipeline from configuration: the Binance client, every
// configured recorder (CSV always, SQLite and Postgres when configured) and
// the optional Telegram notifier. The returned recorder must be closed by
// the caller when the process exits.
func Build(cfg *config.Config) (*Pipeline, recorder.Recorder, error) {
	client := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.DataSource.BaseURL,
		RequestTimeout: time.Duration(cfg.DataSource.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
	})

	var recorders recorder.Multi

	csvRec, err := recorder.NewCSVRecorder(cfg.Output.Dir)
	if err != nil {
		return nil, nil, err
	}
	recorders = append(recorders, csvRec)

	if cfg.Database.SQLitePath != "" {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		recorders = append(recorders, sqliteRec)
	}

	if cfg.Database.PostgresDSN != "" {
		pgRec, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		recorders = append(recorders, pgRec)
	}

	var n Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			// A broken notifier should not block classification runs.
			log.Warn().Err(err).Msg("Telegram notifier disabled")
		} else {
			n = tg
		}
	}

	return New(cfg, client, recorders, n), recorders, nil
}
