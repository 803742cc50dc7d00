package analyze

import (
	"math"
	"time"

	"github.com/SheenyxX/Trading-Project/internal/model"
)

// Thresholds above which a percentile reading counts as "high".
const (
	highVolumePercentile     = 70.0
	highVolatilityPercentile = 70.0
)

// Classify turns one indicator row into a market classification. It is a
// pure function: all history is already folded into the row's percentile and
// MACD fields, and the same row always yields the same metrics.
//
// A row with undefined required fields is rejected rather than classified;
// defaulting an unknown percentile to "low" would silently corrupt the
// signal.
func Classify(row model.IndicatorRow, date time.Time) (*model.MarketMetrics, error) {
	if err := checkDefined(row, date); err != nil {
		return nil, err
	}

	trend := model.TrendBearish
	if row.MACD > row.Signal {
		trend = model.TrendBullish
	}

	volume := model.LevelLow
	if row.VolumePercentile > highVolumePercentile {
		volume = model.LevelHigh
	}

	volatility := model.LevelLow
	if row.ATRPercentile > highVolatilityPercentile {
		volatility = model.LevelHigh
	}

	return &model.MarketMetrics{
		Date:             date,
		MarketStatus:     marketStatus(trend, volume, volatility),
		MACDTrend:        trend,
		VolumeStatus:     volume,
		VolatilityStatus: volatility,
		TradeDecision:    tradeDecision(volume, volatility),
	}, nil
}

func checkDefined(row model.IndicatorRow, date time.Time) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"macd", row.MACD},
		{"signal", row.Signal},
		{"volume_percentile", row.VolumePercentile},
		{"atr_percentile", row.ATRPercentile},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) {
			return &model.UndefinedIndicatorError{Field: f.name, Date: date}
		}
	}
	return nil
}

// marketStatus applies the classification rules in priority order; the
// first matching rule wins.
func marketStatus(trend, volume, volatility string) string {
	switch {
	case trend == model.TrendBullish && volume == model.LevelHigh && volatility == model.LevelHigh:
		return model.StatusStrongUptrend
	case trend == model.TrendBearish && volume == model.LevelHigh && volatility == model.LevelHigh:
		return model.StatusStrongDowntrend
	case volume == model.LevelLow && volatility == model.LevelLow:
		return model.StatusSideways
	default:
		return model.StatusCaution
	}
}

func tradeDecision(volume, volatility string) string {
	highs := 0
	if volume == model.LevelHigh {
		highs++
	}
	if volatility == model.LevelHigh {
		highs++
	}
	switch highs {
	case 2:
		return model.DecisionTradeNow
	case 1:
		return model.DecisionStayCautious
	default:
		return model.DecisionAvoid
	}
}
