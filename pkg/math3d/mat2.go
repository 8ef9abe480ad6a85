package math3d

import "math"

// Mat2 is a 2x2 matrix stored in row-major order.
//
// Memory layout (indices):
// | 0 1 |
// | 2 3 |
type Mat2 [4]float64

// Rotate2D returns the counter-clockwise rotation by deg degrees:
// [[cos, -sin], [sin, cos]].
func Rotate2D(deg float64) Mat2 {
	s, c := math.Sincos(Radians(deg))
	return Mat2{
		c, -s,
		s, c,
	}
}

// MulVec2 transforms v by m.
func (m Mat2) MulVec2(v Vec2) Vec2 {
	return Vec2{
		m[0]*v.X + m[1]*v.Y,
		m[2]*v.X + m[3]*v.Y,
	}
}
