package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// Column order is a stable contract for downstream tooling; never reorder.
var csvHeader = []string{
	"date", "market_status", "macd_trend", "volume_status", "volatility_status", "trade_decision",
}

const dateLayout = "2006-01-02"

// CSVRecorder writes results as flat CSV files under a directory: the
// backtest table is rewritten whole on every run, snapshots append to a
// running log.
type CSVRecorder struct {
	dir    string
	logger zerolog.Logger
}

// NewCSVRecorder creates the output directory if needed.
func NewCSVRecorder(dir string) (*CSVRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVRecorder{
		dir:    dir,
		logger: log.With().Str("component", "csv_recorder").Logger(),
	}, nil
}

// BacktestPath is where the historical table lands.
func (r *CSVRecorder) BacktestPath() string {
	return filepath.Join(r.dir, "market_conditions.csv")
}

func (r *CSVRecorder) snapshotPath() string {
	return filepath.Join(r.dir, "daily_snapshots.csv")
}

func (r *CSVRecorder) RecordBacktest(result model.BacktestResult) error {
	f, err := os.Create(r.BacktestPath())
	if err != nil {
		return fmt.Errorf("create backtest file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range result {
		if err := w.Write(metricsRecord(&m)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush backtest file: %w", err)
	}

	r.logger.Info().Int("rows", len(result)).Str("path", r.BacktestPath()).
		Msg("Backtest table written")
	return nil
}

func (r *CSVRecorder) RecordSnapshot(m *model.MarketMetrics) error {
	path := r.snapshotPath()
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(metricsRecord(m)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (r *CSVRecorder) Close() error { return nil }

func metricsRecord(m *model.MarketMetrics) []string {
	return []string{
		m.Date.Format(dateLayout),
		m.MarketStatus,
		m.MACDTrend,
		m.VolumeStatus,
		m.VolatilityStatus,
		m.TradeDecision,
	}
}
