// Package kalman provides the fixed-size linear algebra and the predict/update
// steps used to track a single staff line across image columns.
//
// The filter state is a two-component vector (position, slope) and its
// covariance is a 2x2 matrix. Both are plain value types: every operation
// takes its operands by value and returns a new value, so no call allocates
// and no call mutates its inputs.
//
// # Motion Model
//
// Lines are modelled with constant velocity. For a gap of dy columns since
// the last observation the transition is:
//
//	A = | 1  dy |
//	    | 0   1 |
//
// The observation model H and the measurement noise R are both the identity:
// position and slope are each measured directly and independently.
//
// # Covariance Truncation
//
// Predict keeps only the diagonal of A·P·Aᵀ. Position and slope uncertainty
// are treated as independent after every prediction; the association
// tolerance used by the staves package is tuned against this behaviour.
// Update does not truncate.
//
// # Errors
//
// The only failure is ErrSingularMatrix, returned when the innovation
// covariance cannot be inverted. It indicates an invalid model configuration
// and callers should abort the run rather than skip the observation.
package kalman
