package recorder

import "github.com/SheenyxX/Trading-Project/internal/model"

// Recorder persists classification results for downstream tooling.
type Recorder interface {
	// RecordSnapshot stores the latest daily classification.
	RecordSnapshot(m *model.MarketMetrics) error
	// RecordBacktest stores the full historical labeling, replacing any
	// previous run for the same dates.
	RecordBacktest(result model.BacktestResult) error
	Close() error
}

// Multi fans out to several recorders; the first error wins but every
// recorder is still invoked.
type Multi []Recorder

func (m Multi) RecordSnapshot(s *model.MarketMetrics) error {
	var first error
	for _, r := range m {
		if err := r.RecordSnapshot(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) RecordBacktest(result model.BacktestResult) error {
	var first error
	for _, r := range m {
		if err := r.RecordBacktest(result); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, r := range m {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Noop is used when no sink is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordSnapshot(_ *model.MarketMetrics) error { return nil }
func (*Noop) RecordBacktest(_ model.BacktestResult) error { return nil }
func (*Noop) Close() error                                { return nil }
