package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	return rec
}

func (r *SQLiteRecorder) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteRecorderSnapshot(t *testing.T) {
	rec := newTestSQLite(t)

	m := metricsFixture(0)
	require.NoError(t, rec.RecordSnapshot(&m))
	require.NoError(t, rec.RecordSnapshot(&m))

	// Snapshots are an append-only log.
	assert.Equal(t, 2, rec.countRows(t, "snapshots"))
}

func TestSQLiteRecorderBacktestUpsert(t *testing.T) {
	rec := newTestSQLite(t)

	result := model.BacktestResult{metricsFixture(0), metricsFixture(1), metricsFixture(2)}
	require.NoError(t, rec.RecordBacktest(result))
	assert.Equal(t, 3, rec.countRows(t, "backtest_rows"))

	// Re-running the same history must not duplicate rows.
	require.NoError(t, rec.RecordBacktest(result))
	assert.Equal(t, 3, rec.countRows(t, "backtest_rows"))

	var status string
	require.NoError(t, rec.db.QueryRow(
		"SELECT market_status FROM backtest_rows WHERE date = ?", "2024-03-02",
	).Scan(&status))
	assert.Equal(t, model.StatusCaution, status)
}
