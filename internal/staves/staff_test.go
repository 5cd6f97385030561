package staves

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/staff-tracker-mcp/internal/kalman"
)

func TestNewStaff(t *testing.T) {
	s, err := NewStaff([]int{5, 7, 9}, 3)
	require.NoError(t, err)

	assert.Equal(t, kalman.Vec2{7.5, 0}, s.State())
	assert.Equal(t, kalman.Identity, s.Covariance())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, Observation{Column: 3, Positions: []int{5, 7, 9}, Estimate: 7.5}, s.First())
	assert.Equal(t, s.First(), s.Last())
}

func TestNewStaff_Empty(t *testing.T) {
	s, err := NewStaff(nil, 0)
	require.ErrorIs(t, err, ErrEmptyCluster)
	assert.Nil(t, s)
}

func TestNewStaff_CopiesPositions(t *testing.T) {
	rows := []int{4, 5}
	s, err := NewStaff(rows, 0)
	require.NoError(t, err)

	rows[0] = 100
	assert.Equal(t, []int{4, 5}, s.First().Positions)
}

func TestStaff_PredictAt_IsReadOnly(t *testing.T) {
	s, err := NewStaff([]int{5, 7, 9}, 3)
	require.NoError(t, err)

	pred := s.PredictAt(5)
	assert.Equal(t, Prediction{Origin: 3, Position: 7.5, Slope: 0}, pred)
	assert.Equal(t, 2, pred.Gap(5))

	assert.Equal(t, kalman.Vec2{7.5, 0}, s.State())
	assert.Equal(t, kalman.Identity, s.Covariance())
	assert.Equal(t, 1, s.Len())
}

func TestStaff_Absorb_StationaryCluster(t *testing.T) {
	s, err := NewStaff([]int{5, 7, 9}, 3)
	require.NoError(t, err)

	require.NoError(t, s.Absorb([]int{5, 7, 9}, 4))

	// Predicted covariance diag(2, 1), gain diag(2/3, 1/2), zero innovation.
	assert.Equal(t, kalman.Vec2{7.5, 0}, s.State())
	p := s.Covariance()
	assert.InDelta(t, 2.0/3.0, p[0][0], 1e-6)
	assert.InDelta(t, 0.5, p[1][1], 1e-6)
	assert.Equal(t, 2, s.Len())
}

func TestStaff_Absorb_MovingCluster(t *testing.T) {
	s, err := NewStaff([]int{5, 7, 9}, 3)
	require.NoError(t, err)

	// Mean moves from 7.5 to 9.5 over one column: measurement (9.5, 2).
	require.NoError(t, s.Absorb([]int{8, 9, 10}, 4))

	assert.InDelta(t, 7.5+2.0*2.0/3.0, s.Position(), 1e-5)
	assert.InDelta(t, 1.0, s.Slope(), 1e-6)

	last := s.Last()
	assert.Equal(t, 4, last.Column)
	assert.Equal(t, []int{8, 9, 10}, last.Positions)
	assert.InDelta(t, s.Position(), last.Estimate, 1e-6)

	pred := s.PredictAt(6)
	assert.Equal(t, 4, pred.Origin)
	assert.InDelta(t, s.Position()+2, pred.Position, 1e-5)
	assert.InDelta(t, 1.0, pred.Slope, 1e-6)
}

func TestStaff_Absorb_AcrossGap(t *testing.T) {
	s, err := NewStaff([]int{10}, 0)
	require.NoError(t, err)

	// dy = 2: predicted covariance diag(5, 1), measurement (12.5, 1).
	require.NoError(t, s.Absorb([]int{12}, 2))

	assert.InDelta(t, 10.5+2.0*5.0/6.0, s.Position(), 1e-5)
	assert.InDelta(t, 0.5, s.Slope(), 1e-6)

	first, last := s.Span()
	assert.Equal(t, 0, first)
	assert.Equal(t, 2, last)
}

func TestStaff_Absorb_Errors(t *testing.T) {
	s, err := NewStaff([]int{10}, 5)
	require.NoError(t, err)

	require.ErrorIs(t, s.Absorb(nil, 6), ErrEmptyCluster)
	require.ErrorIs(t, s.Absorb([]int{10}, 5), ErrColumnOrder)
	require.ErrorIs(t, s.Absorb([]int{10}, 4), ErrColumnOrder)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, kalman.Vec2{10.5, 0}, s.State())
}

func TestStaff_History_IsCopy(t *testing.T) {
	s, err := NewStaff([]int{10}, 0)
	require.NoError(t, err)
	require.NoError(t, s.Absorb([]int{10}, 1))

	h := s.History()
	require.Len(t, h, 2)
	h[0].Column = 42
	assert.Equal(t, 0, s.First().Column)
}
