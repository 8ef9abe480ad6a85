package models

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/render"
	"github.com/taigrr/delusion/pkg/shader"
)

// Suffixes of the texture maps that sit next to an OBJ file.
const (
	DiffuseSuffix  = "_diffuse.tga"
	NormalSuffix   = "_nm.tga"
	SpecularSuffix = "_spec.tga"
)

var _ shader.Geometry = (*Model)(nil)

// Model is a mesh with its texture maps. Any map may be nil.
type Model struct {
	*Mesh
	DiffuseMap  *render.Texture
	NormalMap   *render.Texture
	SpecularMap *render.Texture
}

// NewModel wraps mesh without textures.
func NewModel(mesh *Mesh) *Model {
	return &Model{Mesh: mesh}
}

// LoadModel loads an .obj, .glb or .gltf file. OBJ models pick up the
// sibling <name>_diffuse.tga, <name>_nm.tga and <name>_spec.tga maps when
// they exist; glTF models use the first material texture as diffuse map.
func LoadModel(path string) (*Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		mesh, err := LoadOBJ(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		m := NewModel(mesh)
		prefix := strings.TrimSuffix(path, filepath.Ext(path))
		for _, tm := range []struct {
			suffix string
			dst    **render.Texture
		}{
			{DiffuseSuffix, &m.DiffuseMap},
			{NormalSuffix, &m.NormalMap},
			{SpecularSuffix, &m.SpecularMap},
		} {
			tex, err := loadOptionalTexture(prefix + tm.suffix)
			if err != nil {
				return nil, fmt.Errorf("load model: %w", err)
			}
			*tm.dst = tex
		}
		return m, nil
	case ".glb", ".gltf":
		mesh, err := LoadGLB(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		m := NewModel(mesh)
		if img := mesh.FirstImage(); img != nil {
			m.DiffuseMap = render.TextureFromImage(img)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("load model: unsupported format %q", ext)
	}
}

// loadOptionalTexture returns nil without error when path does not exist.
func loadOptionalTexture(path string) (*render.Texture, error) {
	tex, err := render.LoadTexture(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return tex, err
}

// Maps reports which texture maps are loaded.
func (m *Model) Maps() (diffuse, normal, specular bool) {
	return m.DiffuseMap != nil, m.NormalMap != nil, m.SpecularMap != nil
}

// FaceCount returns the number of triangles.
func (m *Model) FaceCount() int {
	return len(m.Faces)
}

// vertex resolves a face corner, panicking with *IndexError when either
// index misses its table.
func (m *Model) vertex(face, slot int) *MeshVertex {
	if face < 0 || face >= len(m.Faces) {
		panic(&IndexError{Table: "face", Face: face, Slot: slot, Index: face, Len: len(m.Faces)})
	}
	if slot < 0 || slot > 2 {
		panic(&IndexError{Table: "slot", Face: face, Slot: slot, Index: slot, Len: 3})
	}
	vi := m.Faces[face].V[slot]
	if vi < 0 || vi >= len(m.Vertices) {
		panic(&IndexError{Table: "vertex", Face: face, Slot: slot, Index: vi, Len: len(m.Vertices)})
	}
	return &m.Vertices[vi]
}

// VertexPosition returns the object-space position of a face corner.
func (m *Model) VertexPosition(face, slot int) math3d.Vec3 {
	return m.vertex(face, slot).Position
}

// VertexUV returns the texture coordinate of a face corner.
func (m *Model) VertexUV(face, slot int) math3d.Vec2 {
	return m.vertex(face, slot).UV
}

// VertexNormal returns the unit normal of a face corner.
func (m *Model) VertexNormal(face, slot int) math3d.Vec3 {
	return m.vertex(face, slot).Normal.Normalize()
}

// Diffuse returns the diffuse texel at uv as RGB in 0..255. Lookups that
// miss the map return render.ColorFallback.
func (m *Model) Diffuse(uv math3d.Vec2) math3d.Vec3 {
	c, ok := m.DiffuseMap.Sample(uv)
	if !ok {
		c = render.ColorFallback
	}
	return render.Vec3FromColor(c)
}

// Normal returns the tangent-free normal map value at uv in [-1,1]^3.
// Lookups that miss the map return +Z.
func (m *Model) Normal(uv math3d.Vec2) math3d.Vec3 {
	c, ok := m.NormalMap.Sample(uv)
	if !ok {
		return math3d.V3(0, 0, 1)
	}
	return render.UnpackNormal(c)
}

// Specular returns the specular exponent at uv, read from the red channel.
// Lookups that miss the map return 0.
func (m *Model) Specular(uv math3d.Vec2) float64 {
	c, ok := m.SpecularMap.Sample(uv)
	if !ok {
		return 0
	}
	return float64(c.R)
}
