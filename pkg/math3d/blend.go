package math3d

// Blend returns the affine combination w.X·a + w.Y·b + w.Z·c of three
// scalars, the dot product of a varying row with barycentric weights.
func Blend(a, b, c float64, w Vec3) float64 {
	return a*w.X + b*w.Y + c*w.Z
}

// Blend2 interpolates three 2D varyings by barycentric weights w.
func Blend2(cols [3]Vec2, w Vec3) Vec2 {
	return Vec2{
		Blend(cols[0].X, cols[1].X, cols[2].X, w),
		Blend(cols[0].Y, cols[1].Y, cols[2].Y, w),
	}
}

// Blend3 interpolates three 3D varyings by barycentric weights w.
func Blend3(cols [3]Vec3, w Vec3) Vec3 {
	return Vec3{
		Blend(cols[0].X, cols[1].X, cols[2].X, w),
		Blend(cols[0].Y, cols[1].Y, cols[2].Y, w),
		Blend(cols[0].Z, cols[1].Z, cols[2].Z, w),
	}
}
