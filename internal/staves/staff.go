package staves

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ironsheep/staff-tracker-mcp/internal/kalman"
)

var (
	// ErrEmptyCluster is returned by NewStaff and Staff.Absorb when called
	// with no positions. Empty positions are a caller bug reported as an
	// error rather than a panic. Tracker never passes an empty cluster, so
	// it does not surface from Push or Detect.
	ErrEmptyCluster = errors.New("staves: empty cluster")

	// ErrColumnOrder is returned when a column is not strictly after the
	// previous one.
	ErrColumnOrder = errors.New("staves: column out of order")
)

// Each state component is observed directly with unit noise.
var (
	observationModel = kalman.Identity
	measurementNoise = kalman.Identity
)

// Observation is one column of a staff's history.
type Observation struct {
	// Column is the image column (x) the cluster was found in.
	Column int `json:"column"`

	// Positions are the rows (y) absorbed in this column, ascending.
	Positions []int `json:"positions"`

	// Estimate is the filtered row position after this column was absorbed.
	// For the founding observation it is the cluster mean.
	Estimate float32 `json:"estimate"`
}

// Prediction is a staff's projected position at a later column. It is
// computed without touching the staff's state.
type Prediction struct {
	// Origin is the column the staff was last updated at.
	Origin int

	// Position is the predicted row center.
	Position float32

	// Slope is the predicted row drift per column.
	Slope float32
}

// Gap returns the number of columns between the prediction's origin and
// column.
func (p Prediction) Gap(column int) int {
	return column - p.Origin
}

// Staff is a single tracked horizontal line.
//
// The filter state is (row position, slope). History is never empty and its
// columns are strictly increasing.
type Staff struct {
	x       kalman.Vec2
	p       kalman.Mat2
	history []Observation
}

// NewStaff founds a staff from the rows of its first cluster. The position
// starts at the cluster mean, the slope at zero and the covariance at the
// identity.
func NewStaff(positions []int, column int) (*Staff, error) {
	mean, ok := Mean(positions)
	if !ok {
		return nil, fmt.Errorf("new staff at column %d: %w", column, ErrEmptyCluster)
	}
	return &Staff{
		x: kalman.Vec2{mean, 0},
		p: kalman.Identity,
		history: []Observation{{
			Column:    column,
			Positions: slices.Clone(positions),
			Estimate:  mean,
		}},
	}, nil
}

// PredictAt projects the staff to column without changing it.
func (s *Staff) PredictAt(column int) Prediction {
	last := s.Last()
	x, _ := kalman.Predict(s.x, s.p, s.transition(column))
	return Prediction{
		Origin:   last.Column,
		Position: x[0],
		Slope:    x[1],
	}
}

// Absorb incorporates the rows matched to this staff in column.
//
// The prediction is recomputed here rather than reused from PredictAt. The
// measurement is the cluster mean together with the change of mean per
// column since the previous observation. On error the staff is unchanged.
func (s *Staff) Absorb(positions []int, column int) error {
	mean, ok := Mean(positions)
	if !ok {
		return fmt.Errorf("absorb at column %d: %w", column, ErrEmptyCluster)
	}
	last := s.Last()
	if column <= last.Column {
		return fmt.Errorf("absorb at column %d after %d: %w", column, last.Column, ErrColumnOrder)
	}

	prevMean, _ := Mean(last.Positions)
	dy := float32(column - last.Column)
	z := kalman.Vec2{mean, (mean - prevMean) / dy}

	x, p := kalman.Predict(s.x, s.p, s.transition(column))
	x, p, err := kalman.Update(x, p, z, observationModel, measurementNoise)
	if err != nil {
		return fmt.Errorf("absorb at column %d: %w", column, err)
	}

	s.x, s.p = x, p
	s.history = append(s.history, Observation{
		Column:    column,
		Positions: slices.Clone(positions),
		Estimate:  x[0],
	})
	return nil
}

func (s *Staff) transition(column int) kalman.Mat2 {
	return kalman.Transition(float32(column - s.Last().Column))
}

// Position returns the current filtered row position.
func (s *Staff) Position() float32 { return s.x[0] }

// Slope returns the current filtered slope in rows per column.
func (s *Staff) Slope() float32 { return s.x[1] }

// State returns the filter state vector.
func (s *Staff) State() kalman.Vec2 { return s.x }

// Covariance returns the filter covariance.
func (s *Staff) Covariance() kalman.Mat2 { return s.p }

// Len returns the number of columns the staff was observed in.
func (s *Staff) Len() int { return len(s.history) }

// First returns the founding observation.
func (s *Staff) First() Observation { return s.history[0] }

// Last returns the most recent observation.
func (s *Staff) Last() Observation { return s.history[len(s.history)-1] }

// Span returns the first and last observed columns.
func (s *Staff) Span() (first, last int) {
	return s.First().Column, s.Last().Column
}

// History returns a copy of the staff's observations in column order.
func (s *Staff) History() []Observation {
	return slices.Clone(s.history)
}
