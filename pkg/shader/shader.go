// Package shader defines the two-phase vertex/fragment contract used by the
// rasterizer and the shading algorithms that implement it.
//
// A shader is driven per triangle: Vertex is called exactly once for each of
// the three vertex slots, then Fragment any number of times with barycentric
// weights. Vertex overwrites the shader's varying state, so one instance must
// never serve two triangles at once; use Clone to give each worker its own.
package shader

import (
	"errors"
	"fmt"

	"github.com/taigrr/delusion/pkg/math3d"
)

var (
	// ErrPhase reports a violation of the vertex-then-fragment ordering.
	ErrPhase = errors.New("shader: phase violation")
	// ErrUnknownShader is returned by ByName for unregistered names.
	ErrUnknownShader = errors.New("shader: unknown shader")
)

// Geometry is the mesh and texture provider a shader reads from.
type Geometry interface {
	FaceCount() int
	VertexPosition(face, slot int) math3d.Vec3
	VertexUV(face, slot int) math3d.Vec2
	// VertexNormal returns a unit normal.
	VertexNormal(face, slot int) math3d.Vec3
	// Diffuse returns an RGB color in 0..255. It never fails: uv outside
	// [0,1]² yields a fallback color.
	Diffuse(uv math3d.Vec2) math3d.Vec3
	// Normal returns a tangent-free normal-map sample in [-1,1]³.
	Normal(uv math3d.Vec2) math3d.Vec3
	// Specular returns the specular exponent at uv.
	Specular(uv math3d.Vec2) float64
}

// Transformer exposes the rasterizer's composed
// viewport·projection·camera·model matrix.
type Transformer interface {
	Transform() math3d.Mat4
}

// Shader is the per-triangle shading contract.
type Shader interface {
	// Vertex records varying state for slot and returns the clip-space
	// position of the vertex.
	Vertex(face, slot int, light math3d.Vec3, geo Geometry, rs Transformer) math3d.Vec4
	// Fragment returns the RGB color (0..255) at barycentric weights bar.
	Fragment(bar math3d.Vec3, geo Geometry) math3d.Vec3
}

// Cloner is a Shader that can hand out independent copies of itself.
type Cloner interface {
	Shader
	Clone() Shader
}

// Uniformer is implemented by shaders that light in eye space and need the
// projection·camera matrix.
type Uniformer interface {
	SetUniform(m math3d.Mat4)
}

const allSlots = 0b111

// phase enforces the 3-vertex-calls-then-fragments ordering.
type phase struct {
	seen    uint8
	shading bool
}

// enter records a vertex call for slot. A call after the previous triangle
// completed starts a new triangle.
func (p *phase) enter(slot int) {
	if slot < 0 || slot > 2 {
		panic(fmt.Errorf("%w: vertex slot %d out of range", ErrPhase, slot))
	}
	if p.seen == allSlots || p.shading {
		p.seen, p.shading = 0, false
	}
	bit := uint8(1) << slot
	if p.seen&bit != 0 {
		panic(fmt.Errorf("%w: vertex slot %d set twice", ErrPhase, slot))
	}
	p.seen |= bit
}

// shade checks that all three vertex slots were populated.
func (p *phase) shade() {
	if p.seen != allSlots {
		panic(fmt.Errorf("%w: fragment with vertex slots %03b", ErrPhase, p.seen))
	}
	p.shading = true
}

// clipPosition runs the shared part of every vertex stage.
func clipPosition(face, slot int, geo Geometry, rs Transformer) math3d.Vec4 {
	return rs.Transform().MulVec4(math3d.V4FromV3(geo.VertexPosition(face, slot), 1))
}
