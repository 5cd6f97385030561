package staves

import (
	"fmt"
	"log/slog"
	"slices"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithTolerance sets the association tolerance in rows. Non-positive values
// are ignored.
func WithTolerance(tolerance float32) Option {
	return func(t *Tracker) {
		if tolerance > 0 {
			t.tolerance = tolerance
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tracker scans columns in increasing order and maintains the set of live
// staves.
type Tracker struct {
	tolerance float32
	logger    *slog.Logger

	staves  []*Staff
	last    int
	started bool
	err     error
}

// NewTracker returns an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		tolerance: DefaultTolerance,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tolerance returns the association tolerance in rows.
func (t *Tracker) Tolerance() float32 { return t.tolerance }

// Push processes the detected rows of one column.
//
// Columns must be pushed in strictly increasing order; an empty column only
// advances the order. positions need not be sorted and are not retained.
//
// A failed Kalman update or staff creation aborts the run: the error is
// returned for this and every later call.
func (t *Tracker) Push(column int, positions []int) error {
	if t.err != nil {
		return t.err
	}
	if t.started && column <= t.last {
		return fmt.Errorf("push column %d after %d: %w", column, t.last, ErrColumnOrder)
	}
	t.started = true
	t.last = column

	if len(positions) == 0 {
		return nil
	}

	rows := slices.Clone(positions)
	slices.Sort(rows)
	rows = slices.Compact(rows)

	clusters := GroupConsecutive(rows)

	predictions := make([]Prediction, len(t.staves))
	for i, s := range t.staves {
		predictions[i] = s.PredictAt(column)
	}

	var matched []Keyed[int]
	var unmatched []int
	for _, cluster := range clusters {
		center, _ := Mean(cluster)
		idx, ok := Match(predictions, center, column, t.tolerance)
		if !ok {
			unmatched = append(unmatched, cluster...)
			continue
		}
		for _, row := range cluster {
			matched = append(matched, Keyed[int]{Value: row, Key: idx})
		}
	}

	for _, g := range GroupByKey(matched) {
		if err := t.staves[g.Key].Absorb(g.Values, column); err != nil {
			t.err = fmt.Errorf("staff %d: %w", g.Key, err)
			return t.err
		}
	}

	for _, run := range GroupConsecutive(unmatched) {
		s, err := NewStaff(run, column)
		if err != nil {
			t.err = err
			return t.err
		}
		t.staves = append(t.staves, s)
		t.logger.Debug("staff created",
			"index", len(t.staves)-1,
			"column", column,
			"position", s.Position())
	}

	return nil
}

// Staves returns the tracked staves in creation order.
func (t *Tracker) Staves() []*Staff {
	return slices.Clone(t.staves)
}

// Err returns the error that aborted the run, if any.
func (t *Tracker) Err() error { return t.err }
