package model

import (
	"math"
	"time"
)

// Candle represents a single daily price candle
type Candle struct {
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// Series is an ordered sequence of candles with strictly increasing timestamps.
// Once built it is never mutated; indicator computation produces new columns
// alongside it rather than modifying it.
type Series []Candle

// NewSeries validates raw candles and returns them as a Series. The slice is
// copied so the caller cannot mutate the series afterwards.
func NewSeries(candles []Candle) (Series, error) {
	if len(candles) == 0 {
		return nil, ErrDataUnavailable
	}

	for i, c := range candles {
		if !validPrices(c) {
			return nil, &MalformedCandleError{Index: i, Time: c.OpenTime}
		}
		if i > 0 && !candles[i-1].OpenTime.Before(c.OpenTime) {
			return nil, &MonotonicityViolationError{
				Index: i,
				Prev:  candles[i-1].OpenTime,
				Curr:  c.OpenTime,
			}
		}
	}

	s := make(Series, len(candles))
	copy(s, candles)
	return s, nil
}

func validPrices(c Candle) bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if c.Low > c.Open || c.Low > c.Close {
		return false
	}
	if c.High < c.Open || c.High < c.Close {
		return false
	}
	return true
}

// Timestamps returns the open times of all candles in order.
func (s Series) Timestamps() []time.Time {
	ts := make([]time.Time, len(s))
	for i, c := range s {
		ts[i] = c.OpenTime
	}
	return ts
}

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}
