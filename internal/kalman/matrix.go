package kalman

import "errors"

// ErrSingularMatrix is returned when inverting a matrix whose determinant is
// exactly zero.
var ErrSingularMatrix = errors.New("kalman: singular matrix")

// Vec2 is a 2x1 column vector.
type Vec2 [2]float32

// Mat2 is a 2x2 matrix stored row by row.
type Mat2 [2][2]float32

// Identity is the 2x2 identity matrix.
var Identity = Mat2{
	{1, 0},
	{0, 1},
}

// Transition returns the constant-velocity transition matrix for a gap of dy
// columns.
func Transition(dy float32) Mat2 {
	return Mat2{
		{1, dy},
		{0, 1},
	}
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v[0] + w[0], v[1] + w[1]}
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v[0] - w[0], v[1] - w[1]}
}

// Mul returns the matrix product a·b.
func (a Mat2) Mul(b Mat2) Mat2 {
	return Mat2{
		{a[0][0]*b[0][0] + a[0][1]*b[1][0], a[0][0]*b[0][1] + a[0][1]*b[1][1]},
		{a[1][0]*b[0][0] + a[1][1]*b[1][0], a[1][0]*b[0][1] + a[1][1]*b[1][1]},
	}
}

// MulVec returns the matrix-vector product a·v.
func (a Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		a[0][0]*v[0] + a[0][1]*v[1],
		a[1][0]*v[0] + a[1][1]*v[1],
	}
}

// Add returns a + b.
func (a Mat2) Add(b Mat2) Mat2 {
	return Mat2{
		{a[0][0] + b[0][0], a[0][1] + b[0][1]},
		{a[1][0] + b[1][0], a[1][1] + b[1][1]},
	}
}

// Sub returns a - b.
func (a Mat2) Sub(b Mat2) Mat2 {
	return Mat2{
		{a[0][0] - b[0][0], a[0][1] - b[0][1]},
		{a[1][0] - b[1][0], a[1][1] - b[1][1]},
	}
}

// T returns the transpose of a.
func (a Mat2) T() Mat2 {
	return Mat2{
		{a[0][0], a[1][0]},
		{a[0][1], a[1][1]},
	}
}

// Det returns the determinant of a.
func (a Mat2) Det() float32 {
	return a[0][0]*a[1][1] - a[1][0]*a[0][1]
}

// Diag returns a with its off-diagonal terms set to zero.
func (a Mat2) Diag() Mat2 {
	return Mat2{
		{a[0][0], 0},
		{0, a[1][1]},
	}
}

// Inverse returns the inverse of a, or ErrSingularMatrix when the
// determinant is exactly zero.
func (a Mat2) Inverse() (Mat2, error) {
	det := a.Det()
	if det == 0 {
		return Mat2{}, ErrSingularMatrix
	}
	return Mat2{
		{a[1][1] / det, -a[0][1] / det},
		{-a[1][0] / det, a[0][0] / det},
	}, nil
}
