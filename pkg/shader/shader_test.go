package shader

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/delusion/pkg/math3d"
)

// stubGeometry is a single-face provider with constant texture lookups.
type stubGeometry struct {
	pos      [3]math3d.Vec3
	normals  [3]math3d.Vec3
	uvs      [3]math3d.Vec2
	diffuse  math3d.Vec3
	normal   math3d.Vec3
	specular float64
}

func (g *stubGeometry) FaceCount() int { return 1 }
func (g *stubGeometry) VertexPosition(_, slot int) math3d.Vec3 { return g.pos[slot] }
func (g *stubGeometry) VertexUV(_, slot int) math3d.Vec2 { return g.uvs[slot] }
func (g *stubGeometry) VertexNormal(_, slot int) math3d.Vec3 { return g.normals[slot] }
func (g *stubGeometry) Diffuse(math3d.Vec2) math3d.Vec3 { return g.diffuse }
func (g *stubGeometry) Normal(math3d.Vec2) math3d.Vec3 { return g.normal }
func (g *stubGeometry) Specular(math3d.Vec2) float64 { return g.specular }

type fixedTransform math3d.Mat4

func (f fixedTransform) Transform() math3d.Mat4 { return math3d.Mat4(f) }

func facingGeometry(tex math3d.Vec3) *stubGeometry {
	up := math3d.V3(0, 0, 1)
	return &stubGeometry{
		pos:      [3]math3d.Vec3{math3d.V3(10, 10, 0), math3d.V3(20, 10, 0), math3d.V3(10, 20, 0)},
		normals:  [3]math3d.Vec3{up, up, up},
		uvs:      [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1)},
		diffuse:  tex,
		normal:   up,
		specular: 10,
	}
}

// runVertices performs the three vertex calls of face 0.
func runVertices(s Shader, geo Geometry, light math3d.Vec3) [3]math3d.Vec4 {
	var pts [3]math3d.Vec4
	for slot := range 3 {
		pts[slot] = s.Vertex(0, slot, light, geo, fixedTransform(math3d.Identity()))
	}
	return pts
}

func requirePhasePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a phase panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.ErrorIs(t, err, ErrPhase)
	}()
	fn()
}

func TestPhaseContract(t *testing.T) {
	geo := facingGeometry(White)
	light := math3d.V3(0, 0, 1)
	rs := fixedTransform(math3d.Identity())
	bar := math3d.V3(1.0/3, 1.0/3, 1.0/3)

	t.Run("fragment before any vertex", func(t *testing.T) {
		requirePhasePanic(t, func() { NewGouraud().Fragment(bar, geo) })
	})

	t.Run("fragment after two vertices", func(t *testing.T) {
		s := NewGouraud()
		s.Vertex(0, 0, light, geo, rs)
		s.Vertex(0, 1, light, geo, rs)
		requirePhasePanic(t, func() { s.Fragment(bar, geo) })
	})

	t.Run("slot out of range", func(t *testing.T) {
		requirePhasePanic(t, func() { NewToon().Vertex(0, 3, light, geo, rs) })
		requirePhasePanic(t, func() { NewToon().Vertex(0, -1, light, geo, rs) })
	})

	t.Run("slot repeated", func(t *testing.T) {
		s := NewToon()
		s.Vertex(0, 1, light, geo, rs)
		requirePhasePanic(t, func() { s.Vertex(0, 1, light, geo, rs) })
	})

	t.Run("any slot order", func(t *testing.T) {
		s := NewToon()
		for _, slot := range []int{2, 0, 1} {
			s.Vertex(0, slot, light, geo, rs)
		}
		assert.NotPanics(t, func() { s.Fragment(bar, geo) })
	})

	t.Run("new triangle resets", func(t *testing.T) {
		s := NewPhongModel()
		runVertices(s, geo, light)
		s.Fragment(bar, geo)
		s.Fragment(bar, geo)

		s.Vertex(0, 0, light, geo, rs)
		requirePhasePanic(t, func() { s.Fragment(bar, geo) })

		s.Vertex(0, 1, light, geo, rs)
		s.Vertex(0, 2, light, geo, rs)
		assert.NotPanics(t, func() { s.Fragment(bar, geo) })
	})

	t.Run("zero fragments then next triangle", func(t *testing.T) {
		s := NewPhongModel()
		runVertices(s, geo, light)
		assert.NotPanics(t, func() { runVertices(s, geo, light) })
	})
}

func TestVertexReturnsClipPosition(t *testing.T) {
	geo := facingGeometry(White)
	m := math3d.Translate(math3d.V3(1, 2, 3))
	s := NewGouraud()

	for slot := range 3 {
		got := s.Vertex(0, slot, math3d.V3(0, 0, 1), geo, fixedTransform(m))
		want := m.MulVec4(math3d.V4FromV3(geo.pos[slot], 1))
		assert.Equal(t, want, got, "slot %d", slot)
	}
}

func TestToonBands(t *testing.T) {
	tests := []struct {
		intensity float64
		want      float64
	}{
		{1, 1},
		{0.86, 1},
		{0.85, 0.8},
		{0.61, 0.8},
		{0.5, 0.6},
		{0.35, 0.4},
		{0.2, 0.3},
		{0.15, 0},
		{0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, band(tc.intensity), "band(%v)", tc.intensity)
	}
}

func TestToonFragment(t *testing.T) {
	geo := facingGeometry(White)
	s := NewToon()
	runVertices(s, geo, math3d.V3(0, 0, 1))

	got := s.Fragment(math3d.V3(0.2, 0.3, 0.5), geo)
	assert.InDelta(t, ToonColor.X, got.X, 1e-9)
	assert.InDelta(t, ToonColor.Y, got.Y, 1e-9)
	assert.InDelta(t, ToonColor.Z, got.Z, 1e-9)

	// Light from behind: every band collapses to black.
	runVertices(s, geo, math3d.V3(0, 0, -1))
	assert.Equal(t, math3d.Zero3(), s.Fragment(math3d.V3(0.2, 0.3, 0.5), geo))
}

func TestGouraudFragment(t *testing.T) {
	tex := math3d.V3(200, 100, 50)
	geo := facingGeometry(tex)
	geo.normals[2] = math3d.V3(0, 0, -1) // unlit corner
	s := NewGouraud()
	runVertices(s, geo, math3d.V3(0, 0, 1))

	got := s.Fragment(math3d.V3(0.5, 0, 0.5), geo)
	want := tex.Scale(0.5)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestPhongFragments(t *testing.T) {
	tex := math3d.V3(100, 50, 10)
	bright := math3d.V3(200, 200, 200)
	bar := math3d.V3(0.25, 0.25, 0.5)
	light := math3d.V3(0, 0, 1)

	tests := []struct {
		name   string
		shader Shader
		tex    math3d.Vec3
		want   math3d.Vec3
	}{
		{"model", NewPhongModel(), tex, White},
		{"diffuse", NewPhongDiffuse(), tex, tex},
		// diff = 1, spec = 1: 5 + tex·2
		{"specular", NewPhongSpecular(math3d.Identity()), tex, math3d.V3(205, 105, 25)},
		{"specular clamps", NewPhongSpecular(math3d.Identity()), bright, math3d.V3(235, 235, 235)},
		{"normal", NewPhongNormal(math3d.Identity()), tex, tex},
		{"normal specular", NewPhongNormalSpecular(math3d.Identity()), tex, math3d.V3(205, 105, 25)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			geo := facingGeometry(tc.tex)
			runVertices(tc.shader, geo, light)
			got := tc.shader.Fragment(bar, geo)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tc.want.Z, got.Z, 1e-9)
		})
	}
}

func TestPhongSpecularExponent(t *testing.T) {
	// Light 45° off the normal reflects to r = (-√½, 0, √½).
	geo := facingGeometry(math3d.V3(100, 100, 100))
	s := NewPhongSpecular(math3d.Identity())
	l := math3d.V3(1, 0, 1).Normalize()
	runVertices(s, geo, l)

	got := s.Fragment(math3d.V3(1, 0, 0), geo)
	diff := math.Sqrt2 / 2
	spec := math.Pow(math.Sqrt2/2, geo.specular)
	assert.InDelta(t, 5+100*(diff+spec), got.X, 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	geo := facingGeometry(White)
	light := math3d.V3(0, 0, 1)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name)
			require.NoError(t, err)
			runVertices(s, geo, light)

			c := s.Clone()
			require.NotSame(t, s, c)

			// The clone starts a fresh phase.
			requirePhasePanic(t, func() { c.Fragment(math3d.V3(1, 0, 0), geo) })
			// The source shader is still mid-triangle.
			assert.NotPanics(t, func() { s.Fragment(math3d.V3(1, 0, 0), geo) })
		})
	}
}

func TestByName(t *testing.T) {
	names := Names()
	require.Len(t, names, 7)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		s, err := ByName(name)
		require.NoError(t, err, name)
		str, ok := s.(interface{ String() string })
		require.True(t, ok, "%s should implement fmt.Stringer", name)
		assert.NotEmpty(t, str.String())
	}

	_, err := ByName("raytrace")
	assert.ErrorIs(t, err, ErrUnknownShader)
}

func TestUniformers(t *testing.T) {
	for _, name := range []string{"phong-specular", "phong-normal", "phong-normal-specular"} {
		s, err := ByName(name)
		require.NoError(t, err)
		_, ok := s.(Uniformer)
		assert.True(t, ok, "%s should accept uniforms", name)
	}
}

func TestSetUniformRotatesLight(t *testing.T) {
	geo := facingGeometry(math3d.V3(100, 100, 100))
	light := math3d.V3(0, 0, 1)
	s := NewPhongNormal(math3d.Identity())

	// Rotating eye space by 180° about Y flips the light away from the
	// untouched normal-map sample but also flips the normal through MIT.
	s.SetUniform(math3d.ModelMatrix(math3d.AxisY(), 180, 1))
	runVertices(s, geo, light)
	got := s.Fragment(math3d.V3(1, 0, 0), geo)
	assert.InDelta(t, 100, got.X, 1e-9)
}
