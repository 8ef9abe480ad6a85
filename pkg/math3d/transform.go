package math3d

import "math"

// DepthRange is the span the viewport maps normalized depth onto.
const DepthRange = 255.0

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Camera builds the look-at view matrix for an eye looking at target.
//
// The basis is w = normalize(eye-target), u = normalize(up × w), v = w × u.
// Rows 0-2 hold u, v and w; the translation column is -target.
func Camera(eye, target, up Vec3) Mat4 {
	w := eye.Sub(target).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	m := Identity()
	for i := range 3 {
		m.Set(0, i, u.At(i))
		m.Set(1, i, v.At(i))
		m.Set(2, i, w.At(i))
		m.Set(i, 3, -target.At(i))
	}
	return m
}

// Projection returns the single-coefficient perspective matrix: the identity
// with m[3][2] = coeff, so w' = 1 + coeff·z.
func Projection(coeff float64) Mat4 {
	m := Identity()
	m.Set(3, 2, coeff)
	return m
}

// ProjectionFor returns the projection for a camera at eye looking at
// target, with coefficient -1/‖eye-target‖. Coincident points yield the
// identity.
func ProjectionFor(eye, target Vec3) Mat4 {
	d := eye.Distance(target)
	if d == 0 {
		return Identity()
	}
	return Projection(-1 / d)
}

// Viewport maps the normalized cube onto a centered sub-rectangle of a
// width×height screen. fill is the fraction of each screen dimension the
// sub-rectangle covers; depth is remapped onto [0, DepthRange].
func Viewport(width, height int, fill float64) Mat4 {
	sw, sh := float64(width), float64(height)
	w, h := sw*fill, sh*fill
	x0 := (sw - w) / 2
	y0 := (sh - h) / 2

	m := Identity()
	m.Set(0, 3, x0+w/2)
	m.Set(1, 3, y0+h/2)
	m.Set(2, 3, DepthRange/2)
	m.Set(0, 0, w/2)
	m.Set(1, 1, h/2)
	m.Set(2, 2, DepthRange/2)
	return m
}

// ModelMatrix rotates by deg degrees about axis and scales uniformly by s.
func ModelMatrix(axis Vec3, deg, s float64) Mat4 {
	return Rotate(axis, Radians(deg)).Mul(ScaleUniform(s))
}
