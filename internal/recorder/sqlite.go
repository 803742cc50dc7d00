package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// SQLiteRecorder persists classifications to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the pipeline writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:     db,
		logger: log.With().Str("component", "sqlite_recorder").Logger(),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("SQLite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			recorded_at       INTEGER NOT NULL,
			date              TEXT NOT NULL,
			market_status     TEXT NOT NULL,
			macd_trend        TEXT NOT NULL,
			volume_status     TEXT NOT NULL,
			volatility_status TEXT NOT NULL,
			trade_decision    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(date)`,

		`CREATE TABLE IF NOT EXISTS backtest_rows (
			date              TEXT PRIMARY KEY,
			market_status     TEXT NOT NULL,
			macd_trend        TEXT NOT NULL,
			volume_status     TEXT NOT NULL,
			volatility_status TEXT NOT NULL,
			trade_decision    TEXT NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(m *model.MarketMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots
		(recorded_at, date, market_status, macd_trend, volume_status, volatility_status, trade_decision)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), m.Date.Format(dateLayout),
		m.MarketStatus, m.MACDTrend, m.VolumeStatus, m.VolatilityStatus, m.TradeDecision,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(result model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO backtest_rows
		(date, market_status, macd_trend, volume_status, volatility_status, trade_decision)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(date) DO UPDATE SET
			market_status=excluded.market_status,
			macd_trend=excluded.macd_trend,
			volume_status=excluded.volume_status,
			volatility_status=excluded.volatility_status,
			trade_decision=excluded.trade_decision`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range result {
		if _, err := stmt.Exec(
			m.Date.Format(dateLayout),
			m.MarketStatus, m.MACDTrend, m.VolumeStatus, m.VolatilityStatus, m.TradeDecision,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", m.Date.Format(dateLayout), err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("Closing SQLite recorder")
	return r.db.Close()
}
