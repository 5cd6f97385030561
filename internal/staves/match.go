package staves

import "math"

// DefaultTolerance is the largest distance in rows between a cluster center
// and a predicted position for the two to be associated.
const DefaultTolerance float32 = 1.2

// Match returns the index of the prediction a cluster centered at center
// should be assigned to in column, or false if none is within tolerance.
//
// Candidates are ranked by column gap since their last observation, then by
// absolute predicted slope. Equal candidates resolve to the lowest index.
// A NaN distance never passes the gate.
func Match(predictions []Prediction, center float32, column int, tolerance float32) (int, bool) {
	best := -1
	var bestGap int
	var bestSlope float32

	for i, pred := range predictions {
		if !(abs32(center-pred.Position) <= tolerance) {
			continue
		}
		gap := pred.Gap(column)
		slope := abs32(pred.Slope)
		if best < 0 || gap < bestGap || (gap == bestGap && slope < bestSlope) {
			best, bestGap, bestSlope = i, gap, slope
		}
	}

	return best, best >= 0
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
