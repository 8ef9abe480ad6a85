package render

import (
	"math"

	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/shader"
)

// Wireframe draws projected edges into a rasterizer's frame, bypassing the
// depth buffer.
type Wireframe struct {
	d *Delusion
}

// NewWireframe creates a wireframe renderer for d.
func NewWireframe(d *Delusion) *Wireframe {
	return &Wireframe{d: d}
}

// project maps a model-space point to raster coordinates through the
// rasterizer's full transform.
func (w *Wireframe) project(p math3d.Vec3) (x, y int, ok bool) {
	clip := w.d.Transform().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, false
	}
	s := clip.XY()
	// Keep Bresenham bounded for points far off screen.
	limit := float64(4 * max(w.d.Width(), w.d.Height()))
	if math.IsNaN(s.X) || math.IsNaN(s.Y) || math.Abs(s.X) > limit || math.Abs(s.Y) > limit {
		return 0, 0, false
	}
	return int(math.Round(s.X)), int(math.Round(s.Y)), true
}

// DrawLine3D draws a line between two model-space points. Lines with an
// endpoint behind the eye are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, ok1 := w.project(p1)
	x2, y2, ok2 := w.project(p2)
	if !ok1 || !ok2 {
		return
	}
	w.d.fb.DrawLine(x1, y1, x2, y2, color)
}

// DrawFaces draws the three edges of every face of geo.
func (w *Wireframe) DrawFaces(geo shader.Geometry, color Color) {
	for face := range geo.FaceCount() {
		var v [3]math3d.Vec3
		for slot := range 3 {
			v[slot] = geo.VertexPosition(face, slot)
		}
		w.DrawLine3D(v[0], v[1], color)
		w.DrawLine3D(v[1], v[2], color)
		w.DrawLine3D(v[2], v[0], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}
