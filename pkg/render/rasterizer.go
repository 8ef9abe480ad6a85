package render

import (
	"image"
	"math"

	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/shader"
)

// ClearDepth is the value the depth buffer is reset to. Depth testing is
// max-wins, so the most negative float admits every first fragment.
const ClearDepth = -math.MaxFloat64

// degenerateArea is the signed-area magnitude below which a triangle is
// treated as having no interior.
const degenerateArea = 1e-9

// Delusion is the rasterizer. It owns the transform set, the frame buffer,
// the depth buffer and the MSAA state. A Delusion is not safe for
// concurrent use except through RenderTiled.
type Delusion struct {
	model      math3d.Mat4
	camera     math3d.Mat4
	projection math3d.Mat4
	viewport   math3d.Mat4
	transform  math3d.Mat4

	fb      *FrameBuffer
	zbuffer []float64

	msaa    MSAAMode
	tensors []MsaaTensor
}

// NewDelusion creates a rasterizer with identity transforms and a
// width×height frame. The frame starts black and the depth buffer cleared.
func NewDelusion(width, height int) *Delusion {
	d := &Delusion{
		model:      math3d.Identity(),
		camera:     math3d.Identity(),
		projection: math3d.Identity(),
		viewport:   math3d.Identity(),
		transform:  math3d.Identity(),
		fb:         NewFrameBuffer(width, height),
		zbuffer:    make([]float64, width*height),
	}
	d.ClearDepthBuffer()
	Logger().Debug("delusion: buffers allocated", "width", width, "height", height)
	return d
}

// Width returns the frame width.
func (d *Delusion) Width() int { return d.fb.Width }

// Height returns the frame height.
func (d *Delusion) Height() int { return d.fb.Height }

// Bounds returns the pixel rectangle of the frame.
func (d *Delusion) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.fb.Width, d.fb.Height)
}

// SetModel sets the model matrix.
func (d *Delusion) SetModel(m math3d.Mat4) {
	d.model = m
	d.updateTransform()
}

// SetCamera sets the view matrix.
func (d *Delusion) SetCamera(m math3d.Mat4) {
	d.camera = m
	d.updateTransform()
}

// SetProjection sets the projection matrix.
func (d *Delusion) SetProjection(m math3d.Mat4) {
	d.projection = m
	d.updateTransform()
}

// SetViewport sets the viewport matrix.
func (d *Delusion) SetViewport(m math3d.Mat4) {
	d.viewport = m
	d.updateTransform()
}

// Model returns the model matrix.
func (d *Delusion) Model() math3d.Mat4 { return d.model }

// Camera returns the view matrix.
func (d *Delusion) Camera() math3d.Mat4 { return d.camera }

// Projection returns the projection matrix.
func (d *Delusion) Projection() math3d.Mat4 { return d.projection }

// Viewport returns the viewport matrix.
func (d *Delusion) Viewport() math3d.Mat4 { return d.viewport }

func (d *Delusion) updateTransform() {
	d.transform = d.viewport.Mul(d.projection).Mul(d.camera).Mul(d.model)
}

// Transform returns viewport·projection·camera·model.
func (d *Delusion) Transform() math3d.Mat4 {
	return d.transform
}

// EnableMSAA switches the anti-aliasing mode.
func (d *Delusion) EnableMSAA(mode MSAAMode) {
	d.msaa = mode
	if mode == MSAAX4 && d.tensors == nil {
		d.tensors = make([]MsaaTensor, d.fb.Width*d.fb.Height)
		Logger().Debug("delusion: msaa tensors allocated", "pixels", len(d.tensors))
	}
}

// DisableMSAA switches back to single-sample rasterization.
func (d *Delusion) DisableMSAA() {
	d.msaa = MSAADisable
}

// MSAA returns the current anti-aliasing mode.
func (d *Delusion) MSAA() MSAAMode {
	return d.msaa
}

// ClearFrameBuffer fills the frame with c.
func (d *Delusion) ClearFrameBuffer(c Color) {
	d.fb.Clear(c)
}

// ClearDepthBuffer resets every depth to ClearDepth.
func (d *Delusion) ClearDepthBuffer() {
	// Use copy-doubling for faster clearing
	n := len(d.zbuffer)
	if n == 0 {
		return
	}
	d.zbuffer[0] = ClearDepth
	for i := 1; i < n; i *= 2 {
		copy(d.zbuffer[i:], d.zbuffer[:i])
	}
}

// FrameBuffer returns the frame for presentation. Callers must not write to
// it while a frame is being rasterized.
func (d *Delusion) FrameBuffer() *FrameBuffer {
	return d.fb
}

// Pixel returns the packed color at raster position (x, y), or 0 when out
// of bounds.
func (d *Delusion) Pixel(x, y int) uint32 {
	return d.fb.At(x, y)
}

// Depth returns the stored depth at (x, y), or 0 when out of bounds.
func (d *Delusion) Depth(x, y int) float64 {
	if x < 0 || x >= d.fb.Width || y < 0 || y >= d.fb.Height {
		return 0
	}
	return d.zbuffer[y*d.fb.Width+x]
}

// Tensor returns a copy of the MSAA record of (x, y). ok is false when MSAA
// was never enabled or the position is out of bounds.
func (d *Delusion) Tensor(x, y int) (t MsaaTensor, ok bool) {
	if d.tensors == nil || x < 0 || x >= d.fb.Width || y < 0 || y >= d.fb.Height {
		return MsaaTensor{}, false
	}
	return d.tensors[y*d.fb.Width+x], true
}

func (d *Delusion) setDepth(x, y int, depth float64) {
	if x < 0 || x >= d.fb.Width || y < 0 || y >= d.fb.Height {
		return
	}
	d.zbuffer[y*d.fb.Width+x] = depth
}

// RasterizeFaces runs the vertex stage for every face of geo and
// rasterizes the resulting triangles in face order.
func (d *Delusion) RasterizeFaces(light math3d.Vec3, sh shader.Shader, geo shader.Geometry) {
	for face := range geo.FaceCount() {
		d.RasterizeTriangle(d.vertices(face, light, sh, geo), sh, geo)
	}
}

func (d *Delusion) vertices(face int, light math3d.Vec3, sh shader.Shader, geo shader.Geometry) [3]math3d.Vec4 {
	var pts [3]math3d.Vec4
	for slot := range 3 {
		pts[slot] = sh.Vertex(face, slot, light, geo, d)
	}
	return pts
}

// RasterizeTriangle scan-converts one triangle of clip-space points. The
// shader's vertex stage must already have run for all three points.
func (d *Delusion) RasterizeTriangle(pts [3]math3d.Vec4, sh shader.Shader, geo shader.Geometry) {
	d.rasterize(pts, sh, geo, d.Bounds())
}

// rasterize walks the bounding box of pts clipped to clip.
func (d *Delusion) rasterize(pts [3]math3d.Vec4, sh shader.Shader, geo shader.Geometry, clip image.Rectangle) {
	a, b, c := pts[0].XY(), pts[1].XY(), pts[2].XY()
	r, ok := pixelBounds(a, b, c, clip)
	if !ok {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if d.msaa == MSAAX4 {
				d.resolve(x, y, &pts, a, b, c, sh, geo)
			} else {
				d.shade(x, y, &pts, a, b, c, sh, geo)
			}
		}
	}
}

// shade runs the single-sample test at the pixel position.
func (d *Delusion) shade(x, y int, pts *[3]math3d.Vec4, a, b, c math3d.Vec2, sh shader.Shader, geo shader.Geometry) {
	bar := Barycentric(a, b, c, float64(x), float64(y))
	if !Inside(bar) {
		return
	}
	depth := fragmentDepth(pts, bar)
	if !(depth >= d.Depth(x, y)) {
		return
	}
	d.setDepth(x, y, depth)
	d.fb.Set(x, y, PackVec3(sh.Fragment(bar, geo)))
}

// resolve evaluates the four subsamples of (x, y) and commits the pixel.
func (d *Delusion) resolve(x, y int, pts *[3]math3d.Vec4, a, b, c math3d.Vec2, sh shader.Shader, geo shader.Geometry) {
	t := &d.tensors[y*d.fb.Width+x]
	hits := 0
	for i, off := range sampleOffsets {
		bar := Barycentric(a, b, c, float64(x)+off.X, float64(y)+off.Y)
		if !Inside(bar) {
			t.Mask[i] = false
			t.Depth[i] = 0
			t.Color[i] = math3d.Vec3{}
			continue
		}
		t.Mask[i] = true
		t.Depth[i] = fragmentDepth(pts, bar)
		t.Color[i] = sh.Fragment(bar, geo)
		hits++
	}

	switch hits {
	case 0:
		return
	case Samples:
		d.shade(x, y, pts, a, b, c, sh, geo)
	default:
		depth, color := t.Average()
		if !(depth >= d.Depth(x, y)) {
			return
		}
		d.setDepth(x, y, depth)
		d.fb.Set(x, y, PackVec3(color))
	}
}

// fragmentDepth interpolates z and w separately from the undivided clip
// coordinates and maps z/w+0.5 onto [0, 255].
func fragmentDepth(pts *[3]math3d.Vec4, bar math3d.Vec3) float64 {
	z := math3d.Blend(pts[0].Z, pts[1].Z, pts[2].Z, bar)
	w := math3d.Blend(pts[0].W, pts[1].W, pts[2].W, bar)
	return math.Max(0, math.Min(math3d.DepthRange, z/w+0.5))
}

// pixelBounds returns the pixels [⌈min⌉, ⌈max⌉) of the triangle's bounding
// box intersected with clip. ok is false for empty boxes and NaN corners.
func pixelBounds(a, b, c math3d.Vec2, clip image.Rectangle) (image.Rectangle, bool) {
	minX, maxX := min3(a.X, b.X, c.X), max3(a.X, b.X, c.X)
	minY, maxY := min3(a.Y, b.Y, c.Y), max3(a.Y, b.Y, c.Y)
	if math.IsNaN(minX) || math.IsNaN(maxX) || math.IsNaN(minY) || math.IsNaN(maxY) {
		return image.Rectangle{}, false
	}

	r := image.Rectangle{
		Min: image.Pt(ceilIn(minX, clip.Min.X, clip.Max.X), ceilIn(minY, clip.Min.Y, clip.Max.Y)),
		Max: image.Pt(ceilIn(maxX, clip.Min.X, clip.Max.X), ceilIn(maxY, clip.Min.Y, clip.Max.Y)),
	}
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

// Barycentric returns the weights (α, β, γ) of point (x, y) relative to the
// screen triangle a, b, c, using the signed-area formula. A degenerate
// triangle returns (-1, 1, 1), which Inside rejects.
func Barycentric(a, b, c math3d.Vec2, x, y float64) math3d.Vec3 {
	area := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if math.Abs(area) < degenerateArea {
		return math3d.V3(-1, 1, 1)
	}
	gamma := ((b.X-a.X)*(y-a.Y) - (x-a.X)*(b.Y-a.Y)) / area
	beta := ((x-a.X)*(c.Y-a.Y) - (c.X-a.X)*(y-a.Y)) / area
	return math3d.V3(1-beta-gamma, beta, gamma)
}

// Inside reports whether every weight is non-negative. NaN weights are
// outside.
func Inside(bar math3d.Vec3) bool {
	return bar.X >= 0 && bar.Y >= 0 && bar.Z >= 0
}

// ceilIn clamps v to [lo, hi] in float space, so infinities never reach the
// int conversion, and rounds up.
func ceilIn(v float64, lo, hi int) int {
	return int(math.Ceil(math.Max(float64(lo), math.Min(float64(hi), v))))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
