package calculate

import (
	"fmt"
	"math"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// Params holds the indicator configuration.
type Params struct {
	FastPeriod       int
	SlowPeriod       int
	SignalPeriod     int
	PercentileWindow int
	ATRWindow        int
}

// DefaultParams returns the standard MACD(12,26,9) setup with a 30-sample
// percentile window and a 14-sample ATR.
func DefaultParams() Params {
	return Params{
		FastPeriod:       12,
		SlowPeriod:       26,
		SignalPeriod:     9,
		PercentileWindow: 30,
		ATRWindow:        14,
	}
}

// Validate checks the parameter set for internal consistency.
func (p Params) Validate() error {
	if p.FastPeriod <= 0 || p.SlowPeriod <= 0 || p.SignalPeriod <= 0 {
		return fmt.Errorf("macd periods must be positive, got (%d,%d,%d)",
			p.FastPeriod, p.SlowPeriod, p.SignalPeriod)
	}
	if p.FastPeriod >= p.SlowPeriod {
		return fmt.Errorf("macd fast period %d must be shorter than slow period %d",
			p.FastPeriod, p.SlowPeriod)
	}
	if p.PercentileWindow <= 0 {
		return fmt.Errorf("percentile window must be positive, got %d", p.PercentileWindow)
	}
	if p.ATRWindow <= 0 {
		return fmt.Errorf("atr window must be positive, got %d", p.ATRWindow)
	}
	return nil
}

// warmup is the number of leading rows without a trend reading.
func (p Params) warmup() int {
	if p.ATRWindow > p.SlowPeriod {
		return p.ATRWindow
	}
	return p.SlowPeriod
}

// Indicators holds the derived columns for a series. All columns are aligned
// with the underlying candles; cells without enough trailing history are NaN.
type Indicators struct {
	series model.Series
	params Params

	VolumeQuote      []float64
	TrueRange        []float64
	ATR              []float64
	VolumePercentile []float64
	ATRPercentile    []float64
	MACD             []float64
	Signal           []float64
	Histogram        []float64
}

// Augment derives all indicator columns for the series. It is a pure
// function of its input: the series is never mutated and running it twice
// on the same series yields identical columns.
func Augment(series model.Series, p Params) (*Indicators, error) {
	if len(series) == 0 {
		return nil, model.ErrDataUnavailable
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(series)
	closes := series.Closes()

	volumeQuote := make([]float64, n)
	for i, c := range series {
		volumeQuote[i] = c.Volume * c.Close
	}

	tr := trueRanges(series)
	atr := rollingMean(tr, p.ATRWindow)

	fast := ewma(closes, p.FastPeriod)
	slow := ewma(closes, p.SlowPeriod)
	macd := make([]float64, n)
	for i := range macd {
		macd[i] = fast[i] - slow[i]
	}
	signal := ewma(macd, p.SignalPeriod)
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = macd[i] - signal[i]
	}

	// The recursions are seeded at index 0, but the first rows carry no
	// meaningful trend reading until the slow EMA has seen a full period.
	for i := 0; i < p.warmup() && i < n; i++ {
		macd[i] = math.NaN()
		signal[i] = math.NaN()
		hist[i] = math.NaN()
	}

	return &Indicators{
		series:           series,
		params:           p,
		VolumeQuote:      volumeQuote,
		TrueRange:        tr,
		ATR:              atr,
		VolumePercentile: rollingPercentile(volumeQuote, p.PercentileWindow),
		ATRPercentile:    rollingPercentile(atr, p.PercentileWindow),
		MACD:             macd,
		Signal:           signal,
		Histogram:        hist,
	}, nil
}

// Len returns the number of rows.
func (ind *Indicators) Len() int { return len(ind.series) }

// Series returns the underlying candles.
func (ind *Indicators) Series() model.Series { return ind.series }

// Params returns the configuration the columns were computed with.
func (ind *Indicators) Params() Params { return ind.params }

// Row materializes the indicator row at index i.
func (ind *Indicators) Row(i int) model.IndicatorRow {
	c := ind.series[i]
	return model.IndicatorRow{
		OpenTime:         c.OpenTime,
		Close:            c.Close,
		VolumeQuote:      ind.VolumeQuote[i],
		TrueRange:        ind.TrueRange[i],
		ATR:              ind.ATR[i],
		VolumePercentile: ind.VolumePercentile[i],
		ATRPercentile:    ind.ATRPercentile[i],
		MACD:             ind.MACD[i],
		Signal:           ind.Signal[i],
		Histogram:        ind.Histogram[i],
	}
}

// Latest returns the most recent indicator row. It fails when the series is
// shorter than the percentile window, since no percentile cell can be
// defined yet.
func (ind *Indicators) Latest() (model.IndicatorRow, error) {
	if n := ind.Len(); n < ind.params.PercentileWindow {
		return model.IndicatorRow{}, &model.InsufficientDataError{
			Need: ind.params.PercentileWindow,
			Have: n,
		}
	}
	return ind.Row(ind.Len() - 1), nil
}

// FirstDefined returns the index of the first row whose classifier inputs
// are all defined, or Len() when no such row exists.
func (ind *Indicators) FirstDefined() int {
	for i := 0; i < ind.Len(); i++ {
		if ind.Row(i).Defined() {
			return i
		}
	}
	return ind.Len()
}

// trueRanges computes the per-candle true range. The first candle has no
// previous close, so its range is simply high-low.
func trueRanges(s model.Series) []float64 {
	tr := make([]float64, len(s))
	for i, c := range s {
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prev := s[i-1].Close
		tr[i] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prev), math.Abs(c.Low-prev)))
	}
	return tr
}

// rollingMean is a trailing simple moving average: NaN until the window is
// full. Deliberately not Wilder-smoothed; the classification thresholds
// downstream are calibrated against the plain average.
func rollingMean(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// ewma is the recursive exponentially weighted moving average with
// alpha = 2/(span+1), seeded with the first sample.
func ewma(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
