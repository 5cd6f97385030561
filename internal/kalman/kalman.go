package kalman

import "fmt"

// Predict projects the state x and covariance p through the transition a.
//
// The returned state is a·x. The returned covariance is the diagonal of
// a·p·aᵀ; the off-diagonal terms of the propagated covariance are dropped.
// No process noise is added.
func Predict(x Vec2, p Mat2, a Mat2) (Vec2, Mat2) {
	return a.MulVec(x), a.Mul(p).Mul(a.T()).Diag()
}

// Update corrects the state x and covariance p with the measurement z.
//
// Parameters:
//   - x, p: the predicted state and covariance.
//   - z: the measurement.
//   - h: the observation model mapping state to measurement space.
//   - r: the measurement noise covariance.
//
// The gain is K = p·hᵀ·(h·p·hᵀ + r)⁻¹. The corrected state is
// x + K·(z − h·x) and the corrected covariance p − K·h·p.
//
// Returns ErrSingularMatrix (wrapped) when h·p·hᵀ + r cannot be inverted.
func Update(x Vec2, p Mat2, z Vec2, h, r Mat2) (Vec2, Mat2, error) {
	s := h.Mul(p).Mul(h.T()).Add(r)
	sInv, err := s.Inverse()
	if err != nil {
		return x, p, fmt.Errorf("innovation covariance: %w", err)
	}
	k := p.Mul(h.T()).Mul(sInv)

	innovation := z.Sub(h.MulVec(x))
	return x.Add(k.MulVec(innovation)), p.Sub(k.Mul(h.Mul(p))), nil
}
