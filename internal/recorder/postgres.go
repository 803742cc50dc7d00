package recorder

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// PostgresRecorder persists classifications to PostgreSQL.
type PostgresRecorder struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresRecorder connects, verifies the connection and creates the
// tables if they don't exist.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{
		db:     db,
		logger: log.With().Str("component", "postgres_recorder").Logger(),
	}
	if err := r.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	r.logger.Info().Msg("Postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) createTables() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			recorded_at       TIMESTAMP NOT NULL,
			date              DATE NOT NULL,
			market_status     TEXT NOT NULL,
			macd_trend        TEXT NOT NULL,
			volume_status     TEXT NOT NULL,
			volatility_status TEXT NOT NULL,
			trade_decision    TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS backtest_rows (
			date              DATE PRIMARY KEY,
			market_status     TEXT NOT NULL,
			macd_trend        TEXT NOT NULL,
			volume_status     TEXT NOT NULL,
			volatility_status TEXT NOT NULL,
			trade_decision    TEXT NOT NULL
		)
	`)
	return err
}

func (r *PostgresRecorder) RecordSnapshot(m *model.MarketMetrics) error {
	_, err := r.db.Exec(`
		INSERT INTO snapshots
			(recorded_at, date, market_status, macd_trend, volume_status, volatility_status, trade_decision)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		time.Now(), m.Date,
		m.MarketStatus, m.MACDTrend, m.VolumeStatus, m.VolatilityStatus, m.TradeDecision,
	)
	return err
}

func (r *PostgresRecorder) RecordBacktest(result model.BacktestResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO backtest_rows
			(date, market_status, macd_trend, volume_status, volatility_status, trade_decision)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date)
		DO UPDATE SET
			market_status = EXCLUDED.market_status,
			macd_trend = EXCLUDED.macd_trend,
			volume_status = EXCLUDED.volume_status,
			volatility_status = EXCLUDED.volatility_status,
			trade_decision = EXCLUDED.trade_decision`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range result {
		if _, err := stmt.Exec(
			m.Date,
			m.MarketStatus, m.MACDTrend, m.VolumeStatus, m.VolatilityStatus, m.TradeDecision,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", m.Date.Format(dateLayout), err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
