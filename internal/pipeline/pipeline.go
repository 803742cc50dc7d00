package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/analyze"
	"github.com/SheenyxX/Trading-Project/internal/api/binance"
	"github.com/SheenyxX/Trading-Project/internal/backtest"
	"github.com/SheenyxX/Trading-Project/internal/calculate"
	"github.com/SheenyxX/Trading-Project/internal/config"
	"github.com/SheenyxX/Trading-Project/internal/model"
	"github.com/SheenyxX/Trading-Project/internal/recorder"
)

// Notifier delivers the daily snapshot; satisfied by notifier.Telegram.
type Notifier interface {
	SendSnapshot(symbol string, m *model.MarketMetrics) error
}

// Pipeline runs the full daily flow: fetch candles, derive indicators,
// classify today, replay history, persist and notify.
type Pipeline struct {
	cfg      *config.Config
	client   *binance.Client
	recorder recorder.Recorder
	notifier Notifier // nil when Telegram is not configured
	logger   zerolog.Logger
}

// New wires a pipeline from its collaborators.
func New(cfg *config.Config, client *binance.Client, rec recorder.Recorder, n Notifier) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		client:   client,
		recorder: rec,
		notifier: n,
		logger:   log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one full pass. The series fetched at the start is owned by
// this run; every derived output is produced once and never mutated after.
func (p *Pipeline) Run(ctx context.Context) error {
	series, err := p.client.GetDailyCandles(ctx, p.cfg.Symbol, p.cfg.LookbackDays)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}

	ind, err := calculate.Augment(series, p.cfg.Params())
	if err != nil {
		return fmt.Errorf("compute indicators: %w", err)
	}

	row, err := ind.Latest()
	if err != nil {
		return fmt.Errorf("latest indicators: %w", err)
	}

	metrics, err := analyze.Classify(row, row.OpenTime)
	if err != nil {
		return fmt.Errorf("classify latest row: %w", err)
	}

	p.logger.Info().
		Str("date", metrics.Date.Format("2006-01-02")).
		Str("market_status", metrics.MarketStatus).
		Str("macd_trend", metrics.MACDTrend).
		Str("volume", metrics.VolumeStatus).
		Str("volatility", metrics.VolatilityStatus).
		Str("decision", metrics.TradeDecision).
		Msg("Daily classification")

	if err := p.recorder.RecordSnapshot(metrics); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}

	result, err := backtest.Replay(ind, p.cfg.MinHistory)
	if err != nil {
		return fmt.Errorf("replay history: %w", err)
	}
	p.logger.Info().Int("days", len(result)).Msg("Historical labeling complete")

	if err := p.recorder.RecordBacktest(result); err != nil {
		return fmt.Errorf("record backtest: %w", err)
	}

	if p.notifier != nil {
		if err := p.notifier.SendSnapshot(p.cfg.Symbol, metrics); err != nil {
			// Delivery failure should not fail the run; results are
			// already persisted.
			p.logger.Error().Err(err).Msg("Snapshot notification failed")
		}
	}

	return nil
}
