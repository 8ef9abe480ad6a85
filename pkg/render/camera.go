package render

import (
	"github.com/taigrr/delusion/pkg/math3d"
)

// Camera is a look-at camera. Its projection is derived from the eye to
// target distance.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	dirty          bool
}

// NewCamera creates a camera at eye looking at target.
func NewCamera(eye, target, up math3d.Vec3) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     up,
		dirty:  true,
	}
}

// SetTarget points the camera at target.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.dirty = true
}

// Move offsets the eye by delta. The target stays put.
func (c *Camera) Move(delta math3d.Vec3) {
	c.Eye = c.Eye.Add(delta)
	c.dirty = true
}

// Distance returns the eye to target distance.
func (c *Camera) Distance() float64 {
	return c.Eye.Distance(c.Target)
}

// ViewMatrix returns the look-at matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.viewMatrix
}

// ProjectionMatrix returns the single-coefficient perspective matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.projMatrix
}

// ViewProjectionMatrix returns projection·view, the uniform matrix used by
// eye-space lighting.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProjMatrix
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.viewMatrix = math3d.Camera(c.Eye, c.Target, c.Up)
	c.projMatrix = math3d.ProjectionFor(c.Eye, c.Target)
	c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	c.dirty = false
}

// Apply loads the camera and projection matrices into d.
func (c *Camera) Apply(d *Delusion) {
	d.SetCamera(c.ViewMatrix())
	d.SetProjection(c.ProjectionMatrix())
}

// WorldToScreen transforms a world point through d's full transform to
// raster coordinates. visible is false when the point lies behind the eye
// or outside the frame.
func (c *Camera) WorldToScreen(d *Delusion, p math3d.Vec3) (x, y, depth float64, visible bool) {
	clip := d.Transform().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	s := clip.PerspectiveDivide()
	if s.X < 0 || s.X >= float64(d.Width()) || s.Y < 0 || s.Y >= float64(d.Height()) {
		return s.X, s.Y, s.Z, false
	}
	return s.X, s.Y, s.Z, true
}
