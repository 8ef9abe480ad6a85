package render

import (
	"github.com/taigrr/delusion/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the model-space volume that projects inside the frame and in
// front of the eye. Each plane's normal points inward.
type Frustum struct {
	Planes [5]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumEye
)

// planeRow returns row i of m as a plane.
func planeRow(m math3d.Mat4, i int) Plane {
	return Plane{
		Normal: math3d.V3(m.Get(i, 0), m.Get(i, 1), m.Get(i, 2)),
		D:      m.Get(i, 3),
	}
}

func planeSum(a Plane, sa float64, b Plane, sb float64) Plane {
	return Plane{
		Normal: a.Normal.Scale(sa).Add(b.Normal.Scale(sb)),
		D:      a.D*sa + b.D*sb,
	}
}

// NewScreenFrustum extracts the frustum of a full
// viewport·projection·camera·model matrix for a width×height frame, in the
// manner of Gribb/Hartmann: a point p is on screen when 0 ≤ x/w ≤ width and
// 0 ≤ y/w ≤ height with w > 0, and each bound is linear in p once
// multiplied through by w.
func NewScreenFrustum(m math3d.Mat4, width, height int) Frustum {
	var f Frustum
	rx, ry, rw := planeRow(m, 0), planeRow(m, 1), planeRow(m, 3)

	f.Planes[FrustumLeft] = rx
	f.Planes[FrustumRight] = planeSum(rw, float64(width), rx, -1)
	f.Planes[FrustumBottom] = ry
	f.Planes[FrustumTop] = planeSum(rw, float64(height), ry, -1)
	f.Planes[FrustumEye] = rw

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// Frustum returns the model-space frustum of the current transform.
func (d *Delusion) Frustum() Frustum {
	return NewScreenFrustum(d.transform, d.fb.Width, d.fb.Height)
}

// Visible reports whether any part of the model-space box can land in the
// frame. Hosts use it to skip meshes that are entirely off screen.
func (d *Delusion) Visible(box AABB) bool {
	return d.Frustum().IntersectAABB(box)
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns an AABB that bounds the original AABB after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	first := m.MulVec3(b.corner(0))
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		p := m.MulVec3(b.corner(i))
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// corner returns corner i of the box; bit 0 selects X, bit 1 Y, bit 2 Z.
func (b AABB) corner(i int) math3d.Vec3 {
	return math3d.V3(
		selectComponent(i&1 != 0, b.Max.X, b.Min.X),
		selectComponent(i&2 != 0, b.Max.Y, b.Min.Y),
		selectComponent(i&4 != 0, b.Max.Z, b.Min.Z),
	)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// The corner furthest along the normal; if it is outside, so is the box.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
