package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrDataUnavailable is returned when a pipeline run receives an empty series.
var ErrDataUnavailable = errors.New("no candle data available")

// InsufficientDataError reports a series shorter than a required window.
// Indicator computation recovers from this locally by leaving early rows
// undefined; it only surfaces when a caller asks for a row that needs the
// full window.
type InsufficientDataError struct {
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d candles, have %d", e.Need, e.Have)
}

// UndefinedIndicatorError reports a classification attempt on a row whose
// required indicator fields are still undefined. Treating an unknown value
// as "low" or "bearish" would corrupt the signal, so this is never
// defaulted away.
type UndefinedIndicatorError struct {
	Field string
	Date  time.Time
}

func (e *UndefinedIndicatorError) Error() string {
	return fmt.Sprintf("indicator %q undefined at %s", e.Field, e.Date.Format("2006-01-02"))
}

// MonotonicityViolationError reports input timestamps that are not strictly
// increasing. This is a data integrity failure and aborts the run.
type MonotonicityViolationError struct {
	Index int
	Prev  time.Time
	Curr  time.Time
}

func (e *MonotonicityViolationError) Error() string {
	return fmt.Sprintf("timestamps not strictly increasing at index %d: %s -> %s",
		e.Index, e.Prev.Format(time.RFC3339), e.Curr.Format(time.RFC3339))
}

// MalformedCandleError reports a candle whose prices violate
// low <= open,close <= high or contain negative or non-finite values.
type MalformedCandleError struct {
	Index int
	Time  time.Time
}

func (e *MalformedCandleError) Error() string {
	return fmt.Sprintf("malformed candle at index %d (%s)", e.Index, e.Time.Format("2006-01-02"))
}
