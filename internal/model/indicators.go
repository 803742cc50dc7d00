package model

import (
	"math"
	"time"
)

// IndicatorRow holds the derived indicator values for a single candle.
// Cells without enough trailing history are NaN; consumers must check
// Defined rather than comparing against NaN-poisoned values.
type IndicatorRow struct {
	OpenTime         time.Time `json:"open_time"`
	Close            float64   `json:"close"`
	VolumeQuote      float64   `json:"volume_quote"`
	TrueRange        float64   `json:"true_range"`
	ATR              float64   `json:"atr"`
	VolumePercentile float64   `json:"volume_percentile"`
	ATRPercentile    float64   `json:"atr_percentile"`
	MACD             float64   `json:"macd"`
	Signal           float64   `json:"signal"`
	Histogram        float64   `json:"histogram"`
}

// Defined reports whether every field the classifier reads is available.
func (r IndicatorRow) Defined() bool {
	for _, v := range []float64{r.MACD, r.Signal, r.VolumePercentile, r.ATRPercentile} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
