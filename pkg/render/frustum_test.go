package render

import (
	"math"
	"testing"

	"github.com/taigrr/delusion/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	// Normal should have length 1
	length := plane.Normal.Len()
	if math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}

	// Check components (3/5, 4/5)
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}

	// D should be scaled too (10/5 = 2)
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}

	size := box.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"edge", math3d.V3(5, 0, 5), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
		{"outside Z", math3d.V3(5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := box.ContainsPoint(tc.point)
			if result != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, result, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	// Test translation
	t.Run("translation", func(t *testing.T) {
		trans := math3d.Translate(math3d.V3(10, 20, 30))
		transformed := box.Transform(trans)

		if transformed.Min.X != 9 || transformed.Min.Y != 19 || transformed.Min.Z != 29 {
			t.Errorf("translated min = %v, want (9, 19, 29)", transformed.Min)
		}
		if transformed.Max.X != 11 || transformed.Max.Y != 21 || transformed.Max.Z != 31 {
			t.Errorf("translated max = %v, want (11, 21, 31)", transformed.Max)
		}
	})

	// Test uniform scale
	t.Run("scale", func(t *testing.T) {
		scale := math3d.ScaleUniform(2.0)
		transformed := box.Transform(scale)

		if transformed.Min.X != -2 || transformed.Min.Y != -2 || transformed.Min.Z != -2 {
			t.Errorf("scaled min = %v, want (-2, -2, -2)", transformed.Min)
		}
		if transformed.Max.X != 2 || transformed.Max.Y != 2 || transformed.Max.Z != 2 {
			t.Errorf("scaled max = %v, want (2, 2, 2)", transformed.Max)
		}
	})
}

func TestScreenFrustumIdentity(t *testing.T) {
	// With identity transforms model space is raster space.
	d := NewDelusion(32, 32)

	tests := []struct {
		name    string
		box     AABB
		visible bool
	}{
		{"inside", NewAABB(math3d.V3(4, 4, 0), math3d.V3(8, 8, 1)), true},
		{"straddles left edge", NewAABB(math3d.V3(-8, 4, 0), math3d.V3(2, 8, 1)), true},
		{"covers frame", NewAABB(math3d.V3(-100, -100, -1), math3d.V3(100, 100, 1)), true},
		{"left of frame", NewAABB(math3d.V3(-20, 4, 0), math3d.V3(-10, 8, 1)), false},
		{"right of frame", NewAABB(math3d.V3(40, 4, 0), math3d.V3(50, 8, 1)), false},
		{"below frame", NewAABB(math3d.V3(4, -9, 0), math3d.V3(8, -1, 1)), false},
		{"above frame", NewAABB(math3d.V3(4, 33, 0), math3d.V3(8, 40, 1)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Visible(tc.box); got != tc.visible {
				t.Errorf("Visible(%v) = %v, want %v", tc.box, got, tc.visible)
			}
		})
	}
}

func TestScreenFrustumContainsPoint(t *testing.T) {
	f := NewScreenFrustum(math3d.Identity(), 32, 16)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(16, 8, 0), true},
		{"origin corner", math3d.V3(0, 0, 0), true},
		{"far corner", math3d.V3(32, 16, 0), true},
		{"past width", math3d.V3(33, 8, 0), false},
		{"past height", math3d.V3(16, 17, 0), false},
		{"negative x", math3d.V3(-1, 8, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestScreenFrustumBehindEye(t *testing.T) {
	d := NewDelusion(64, 64)
	eye := math3d.V3(0, 0, 3)
	cam := NewCamera(eye, math3d.Zero3(), math3d.Up())
	cam.Apply(d)
	d.SetViewport(math3d.Viewport(64, 64, 0.75))

	unit := NewAABB(math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5))
	if !d.Visible(unit) {
		t.Error("unit box at the target should be visible")
	}

	// w = 1 - z/3 in eye space, so everything past z = 3 beyond the eye is
	// behind the projection plane.
	behind := NewAABB(math3d.V3(-0.5, -0.5, 6), math3d.V3(0.5, 0.5, 7))
	if d.Visible(behind) {
		t.Error("box behind the eye should not be visible")
	}

	// Panning the target far away moves the unit box off screen.
	cam.SetTarget(math3d.V3(50, 0, 0))
	cam.Apply(d)
	if d.Visible(unit) {
		t.Error("box should be off screen after panning")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	d := NewDelusion(800, 800)
	NewCamera(math3d.V3(0, 1, 3), math3d.Zero3(), math3d.Up()).Apply(d)
	d.SetViewport(math3d.Viewport(800, 800, 0.75))
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	for b.Loop() {
		_ = d.Visible(box)
	}
}
