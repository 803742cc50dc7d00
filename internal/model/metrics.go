package model

import "time"

// Market status labels, in the order the classification rules check them.
const (
	StatusStrongUptrend   = "Strong Uptrend"
	StatusStrongDowntrend = "Strong Downtrend"
	StatusSideways        = "Sideways/Consolidation"
	StatusCaution         = "Caution/Uncertain"
)

// MACD trend labels.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
)

// Volume and volatility levels.
const (
	LevelHigh = "high"
	LevelLow  = "low"
)

// Trade decision labels.
const (
	DecisionTradeNow     = "Trade Now"
	DecisionStayCautious = "Stay Cautious"
	DecisionAvoid        = "Avoid Trading"
)

// MarketMetrics is the classification of a single day. It is derived solely
// from that day's IndicatorRow; there is no hidden state.
type MarketMetrics struct {
	Date             time.Time `json:"date"`
	MarketStatus     string    `json:"market_status"`
	MACDTrend        string    `json:"macd_trend"`
	VolumeStatus     string    `json:"volume_status"`
	VolatilityStatus string    `json:"volatility_status"`
	TradeDecision    string    `json:"trade_decision"`
}

// BacktestResult is the chronological sequence of per-day classifications
// produced by replaying history.
type BacktestResult []MarketMetrics
