package calculate

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func seriesFromCloses(t *testing.T, closes []float64, volume float64) model.Series {
	t.Helper()
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			OpenTime: day(i),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			Volume:   volume,
		}
	}
	s, err := model.NewSeries(candles)
	require.NoError(t, err)
	return s
}

func randomCloses(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		price += r.Float64()*4 - 2
		closes[i] = price
	}
	return closes
}

func TestEWMA(t *testing.T) {
	// span 3 -> alpha 0.5, seeded with the first sample.
	out := ewma([]float64{1, 2, 3}, 3)
	require.Len(t, out, 3)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.InDelta(t, 1.5, out[1], 1e-12)
	assert.InDelta(t, 2.25, out[2], 1e-12)
}

func TestTrueRanges(t *testing.T) {
	candles := []model.Candle{
		{OpenTime: day(0), Open: 10, High: 12, Low: 9, Close: 10, Volume: 1},
		{OpenTime: day(1), Open: 10, High: 11, Low: 10, Close: 11, Volume: 1},
		{OpenTime: day(2), Open: 11, High: 18, Low: 11, Close: 12, Volume: 1},
	}
	s, err := model.NewSeries(candles)
	require.NoError(t, err)

	tr := trueRanges(s)
	// No previous close for the first candle.
	assert.InDelta(t, 3.0, tr[0], 1e-12)
	// max(11-10, |11-10|, |10-10|) = 1
	assert.InDelta(t, 1.0, tr[1], 1e-12)
	// max(18-11, |18-11|, |11-11|) = 7
	assert.InDelta(t, 7.0, tr[2], 1e-12)
}

func TestRollingMean(t *testing.T) {
	out := rollingMean([]float64{1, 2, 3, 4}, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 1.5, out[1], 1e-12)
	assert.InDelta(t, 2.5, out[2], 1e-12)
	assert.InDelta(t, 3.5, out[3], 1e-12)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.FastPeriod = 26
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.PercentileWindow = 0
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.ATRWindow = -1
	assert.Error(t, bad.Validate())
}

func TestAugmentEmptySeries(t *testing.T) {
	_, err := Augment(model.Series{}, DefaultParams())
	require.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestAugmentHistogramIdentity(t *testing.T) {
	s := seriesFromCloses(t, randomCloses(120, 3), 50)
	ind, err := Augment(s, DefaultParams())
	require.NoError(t, err)

	for i := 0; i < ind.Len(); i++ {
		row := ind.Row(i)
		if math.IsNaN(row.MACD) {
			assert.True(t, math.IsNaN(row.Signal))
			assert.True(t, math.IsNaN(row.Histogram))
			continue
		}
		assert.Equal(t, row.MACD-row.Signal, row.Histogram, "index %d", i)
	}
}

func TestAugmentPercentileBounds(t *testing.T) {
	s := seriesFromCloses(t, randomCloses(200, 11), 50)
	ind, err := Augment(s, DefaultParams())
	require.NoError(t, err)

	for i := 0; i < ind.Len(); i++ {
		for _, v := range []float64{ind.VolumePercentile[i], ind.ATRPercentile[i]} {
			if math.IsNaN(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestAugmentWarmupUndefined(t *testing.T) {
	p := DefaultParams()
	s := seriesFromCloses(t, randomCloses(100, 5), 50)
	ind, err := Augment(s, p)
	require.NoError(t, err)

	// ATR needs a full window of true ranges.
	for i := 0; i < p.ATRWindow-1; i++ {
		assert.True(t, math.IsNaN(ind.ATR[i]), "atr index %d", i)
	}
	assert.False(t, math.IsNaN(ind.ATR[p.ATRWindow-1]))

	// No trend reading before the slow period has been seen.
	for i := 0; i < p.SlowPeriod; i++ {
		assert.True(t, math.IsNaN(ind.MACD[i]), "macd index %d", i)
	}
	assert.False(t, math.IsNaN(ind.MACD[p.SlowPeriod]))

	// Volume percentile needs its full window.
	for i := 0; i < p.PercentileWindow-1; i++ {
		assert.True(t, math.IsNaN(ind.VolumePercentile[i]))
	}
	assert.False(t, math.IsNaN(ind.VolumePercentile[p.PercentileWindow-1]))

	// ATR percentile needs a full window of defined ATR values.
	firstATRPct := (p.ATRWindow - 1) + (p.PercentileWindow - 1)
	for i := 0; i < firstATRPct; i++ {
		assert.True(t, math.IsNaN(ind.ATRPercentile[i]), "atr pct index %d", i)
	}
	assert.False(t, math.IsNaN(ind.ATRPercentile[firstATRPct]))

	assert.Equal(t, firstATRPct, ind.FirstDefined())
}

func TestAugmentIdempotent(t *testing.T) {
	s := seriesFromCloses(t, randomCloses(90, 21), 50)

	first, err := Augment(s, DefaultParams())
	require.NoError(t, err)
	second, err := Augment(s, DefaultParams())
	require.NoError(t, err)

	for i := 0; i < first.Len(); i++ {
		assertRowsEqual(t, first.Row(i), second.Row(i), i)
	}
}

// Indicator cells must depend only on candles at or before their own
// timestamp: augmenting a prefix yields the same rows as the full series.
func TestAugmentCausality(t *testing.T) {
	closes := randomCloses(80, 99)
	full := seriesFromCloses(t, closes, 50)
	prefix := seriesFromCloses(t, closes[:60], 50)

	indFull, err := Augment(full, DefaultParams())
	require.NoError(t, err)
	indPrefix, err := Augment(prefix, DefaultParams())
	require.NoError(t, err)

	for i := 0; i < indPrefix.Len(); i++ {
		assertRowsEqual(t, indFull.Row(i), indPrefix.Row(i), i)
	}
}

func TestAugmentShortSeries(t *testing.T) {
	s := seriesFromCloses(t, randomCloses(10, 1), 50)
	ind, err := Augment(s, DefaultParams())
	require.NoError(t, err)

	for i := 0; i < ind.Len(); i++ {
		assert.True(t, math.IsNaN(ind.VolumePercentile[i]))
		assert.True(t, math.IsNaN(ind.ATRPercentile[i]))
	}

	_, err = ind.Latest()
	var insufficientErr *model.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 30, insufficientErr.Need)
	assert.Equal(t, 10, insufficientErr.Have)
}

func TestAugmentDoesNotMutateSeries(t *testing.T) {
	s := seriesFromCloses(t, randomCloses(60, 13), 50)
	before := make(model.Series, len(s))
	copy(before, s)

	_, err := Augment(s, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func assertRowsEqual(t *testing.T, a, b model.IndicatorRow, index int) {
	t.Helper()
	require.Equal(t, a.OpenTime, b.OpenTime, "index %d", index)
	pairs := [][2]float64{
		{a.VolumeQuote, b.VolumeQuote},
		{a.TrueRange, b.TrueRange},
		{a.ATR, b.ATR},
		{a.VolumePercentile, b.VolumePercentile},
		{a.ATRPercentile, b.ATRPercentile},
		{a.MACD, b.MACD},
		{a.Signal, b.Signal},
		{a.Histogram, b.Histogram},
	}
	for _, pair := range pairs {
		if math.IsNaN(pair[0]) {
			assert.True(t, math.IsNaN(pair[1]), "index %d", index)
			continue
		}
		assert.Equal(t, pair[0], pair[1], "index %d", index)
	}
}
