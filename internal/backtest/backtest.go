package backtest

import (
	"fmt"

	"github.com/SheenyxX/Trading-Project/internal/analyze"
	"github.com/SheenyxX/Trading-Project/internal/calculate"
	"github.com/SheenyxX/Trading-Project/internal/model"
)

// Replay classifies every historical row from minHistory onward, in
// chronological order, producing one MarketMetrics per day.
//
// Every indicator cell depends only on candles at or before its own
// timestamp (the EMAs are recursive and the windows trail), so reading row i
// here sees exactly the state that was knowable on day i: there is no
// look-ahead to forbid beyond the engine's own causality.
//
// The replay starts at the later of minHistory and the first row whose
// indicators are all defined; classifying the warm-up rows would mean
// inventing values for undefined cells. When minHistory already covers the
// warm-up, the output is exactly one entry per row in [minHistory, len) with
// matching timestamps.
func Replay(ind *calculate.Indicators, minHistory int) (model.BacktestResult, error) {
	if minHistory < 0 {
		return nil, fmt.Errorf("min history must not be negative, got %d", minHistory)
	}

	start := minHistory
	if fd := ind.FirstDefined(); fd > start {
		start = fd
	}
	if start >= ind.Len() {
		return model.BacktestResult{}, nil
	}

	result := make(model.BacktestResult, 0, ind.Len()-start)
	for i := start; i < ind.Len(); i++ {
		row := ind.Row(i)
		metrics, err := analyze.Classify(row, row.OpenTime)
		if err != nil {
			// Past the warm-up every row must classify; a hole here
			// means corrupt input, not insufficient history.
			return nil, fmt.Errorf("classify row %d: %w", i, err)
		}
		result = append(result, *metrics)
	}
	return result, nil
}
