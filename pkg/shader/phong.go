package shader

import "github.com/taigrr/delusion/pkg/math3d"

// PhongModel interpolates vertex normals and lights the mesh in plain white.
type PhongModel struct {
	phase
	light  math3d.Vec3
	normal [3]math3d.Vec3
}

// NewPhongModel creates an untextured per-pixel Phong shader.
func NewPhongModel() *PhongModel {
	return &PhongModel{}
}

// Vertex stores the vertex normal for slot and returns the vertex in
// screen space. The light is kept for the fragment stage.
func (s *PhongModel) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.light = light
	s.normal[slot] = geo.VertexNormal(face, slot)
	return clipPosition(face, slot, geo, rs)
}

// Fragment applies the Lambert term of the interpolated normal.
func (s *PhongModel) Fragment(bar math3d.Vec3, _ Geometry) math3d.Vec3 {
	s.shade()
	return White.Scale(lambert(math3d.Blend3(s.normal, bar), s.light))
}

// Clone returns a copy with empty varyings, safe to use on another
// goroutine.
func (s *PhongModel) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

// String names the shader for the window title.
func (s *PhongModel) String() string { return "Phong_Shader::model mode" }

// PhongDiffuse interpolates vertex normals and modulates the diffuse map.
type PhongDiffuse struct {
	phase
	light  math3d.Vec3
	normal [3]math3d.Vec3
	uv     [3]math3d.Vec2
}

// NewPhongDiffuse creates a textured per-pixel Phong shader without
// specular highlights.
func NewPhongDiffuse() *PhongDiffuse {
	return &PhongDiffuse{}
}

func (s *PhongDiffuse) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.light = light
	s.normal[slot] = geo.VertexNormal(face, slot)
	s.uv[slot] = geo.VertexUV(face, slot)
	return clipPosition(face, slot, geo, rs)
}

func (s *PhongDiffuse) Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3 {
	s.shade()
	n := math3d.Blend3(s.normal, bar)
	return geo.Diffuse(math3d.Blend2(s.uv, bar)).Scale(lambert(n, s.light))
}

func (s *PhongDiffuse) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

func (s *PhongDiffuse) String() string { return "Phong_Shader::diffuse mapping" }

// PhongSpecular uses interpolated vertex normals, an eye-space light and the
// specular exponent map.
type PhongSpecular struct {
	phase
	uniforms
	light  math3d.Vec3
	normal [3]math3d.Vec3
	uv     [3]math3d.Vec2
}

// NewPhongSpecular creates a specular-mapped Phong shader. m is the
// projection·camera matrix.
func NewPhongSpecular(m math3d.Mat4) *PhongSpecular {
	return &PhongSpecular{uniforms: newUniforms(m)}
}

// Vertex stores uv and the normal for slot. The light moves into eye space
// in the fragment stage.
func (s *PhongSpecular) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.light = light
	s.normal[slot] = geo.VertexNormal(face, slot)
	s.uv[slot] = geo.VertexUV(face, slot)
	return clipPosition(face, slot, geo, rs)
}

// Fragment combines the diffuse map, Lambert and specular terms.
func (s *PhongSpecular) Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3 {
	s.shade()
	uv := math3d.Blend2(s.uv, bar)
	n := math3d.Blend3(s.normal, bar)
	l := s.eyeLight(s.light)
	return combine(geo.Diffuse(uv), lambert(n, l), phongSpecular(n, l, geo.Specular(uv)))
}

func (s *PhongSpecular) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

func (s *PhongSpecular) String() string { return "Phong_Shader::with specular mapping" }

// PhongNormal takes its normals from the normal map instead of the mesh.
type PhongNormal struct {
	phase
	uniforms
	light math3d.Vec3
	uv    [3]math3d.Vec2
}

// NewPhongNormal creates a normal-mapped Phong shader. m is the
// projection·camera matrix.
func NewPhongNormal(m math3d.Mat4) *PhongNormal {
	return &PhongNormal{uniforms: newUniforms(m)}
}

func (s *PhongNormal) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.light = light
	s.uv[slot] = geo.VertexUV(face, slot)
	return clipPosition(face, slot, geo, rs)
}

// Fragment reads the normal from the map at the interpolated uv.
func (s *PhongNormal) Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3 {
	s.shade()
	uv := math3d.Blend2(s.uv, bar)
	n := s.eyeNormal(geo.Normal(uv))
	l := s.eyeLight(s.light)
	return geo.Diffuse(uv).Scale(lambert(n, l))
}

func (s *PhongNormal) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

func (s *PhongNormal) String() string { return "Phong_Shader::with normal mapping" }

// PhongNormalSpecular combines the normal map, the specular map and the
// diffuse map with the full reflectance model.
type PhongNormalSpecular struct {
	phase
	uniforms
	light math3d.Vec3
	uv    [3]math3d.Vec2
}

// NewPhongNormalSpecular creates the fully mapped Phong shader. m is the
// projection·camera matrix.
func NewPhongNormalSpecular(m math3d.Mat4) *PhongNormalSpecular {
	return &PhongNormalSpecular{uniforms: newUniforms(m)}
}

func (s *PhongNormalSpecular) Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4 {
	s.enter(slot)
	s.light = light
	s.uv[slot] = geo.VertexUV(face, slot)
	return clipPosition(face, slot, geo, rs)
}

func (s *PhongNormalSpecular) Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3 {
	s.shade()
	uv := math3d.Blend2(s.uv, bar)
	n := s.eyeNormal(geo.Normal(uv))
	l := s.eyeLight(s.light)
	return combine(geo.Diffuse(uv), lambert(n, l), phongSpecular(n, l, geo.Specular(uv)))
}

func (s *PhongNormalSpecular) Clone() Shader {
	c := *s
	c.phase = phase{}
	return &c
}

func (s *PhongNormalSpecular) String() string {
	return "Phong_Shader::with normal/specular mapping"
}
