package shader

import "github.com/taigrr/delusion/pkg/math3d"

// Toon is an untextured shader that quantizes Gouraud intensity into bands.
type Toon struct {
	phase
	intensity [3]float64
}

// NewToon creates a toon shader.
func NewToon() *Toon {
	return &Toon{}
}

// Vertex records the Lambert intensity of the vertex normal for slot and
// returns the vertex in screen space.
func (s *Toon) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.intensity[slot] = lambert(geo.VertexNormal(face, slot), light)
	return clipPosition(face, slot, geo, rs)
}

// Fragment bands the interpolated intensity and scales ToonColor by it.
func (s *Toon) Fragment(bar math3d.Vec3, _ Geometry) math3d.Vec3 {
	s.shade()
	i := math3d.Blend(s.intensity[0], s.intensity[1], s.intensity[2], bar)
	return ToonColor.Scale(band(i))
}

// Clone returns a toon shader with fresh varyings.
func (s *Toon) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

// String names the shader for the window title.
func (s *Toon) String() string { return "Weird_Shader::without texture" }

// Gouraud lights per vertex and modulates the diffuse texture by the
// interpolated intensity.
type Gouraud struct {
	phase
	intensity [3]float64
	uv        [3]math3d.Vec2
}

// NewGouraud creates a Gouraud shader.
func NewGouraud() *Gouraud {
	return &Gouraud{}
}

// Vertex records intensity and uv for slot.
func (s *Gouraud) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.uv[slot] = geo.VertexUV(face, slot)
	s.intensity[slot] = lambert(geo.VertexNormal(face, slot), light)
	return clipPosition(face, slot, geo, rs)
}

// Fragment samples the diffuse map at the interpolated uv.
func (s *Gouraud) Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3 {
	s.shade()
	i := math3d.Blend(s.intensity[0], s.intensity[1], s.intensity[2], bar)
	return geo.Diffuse(math3d.Blend2(s.uv, bar)).Scale(i)
}

func (s *Gouraud) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

func (s *Gouraud) String() string { return "Gouraud_Shader::with texture" }
