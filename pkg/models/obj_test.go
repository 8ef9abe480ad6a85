package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/delusion/pkg/math3d"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl paint
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "")
	require.NoError(t, err)

	assert.Equal(t, "quad", mesh.Name)
	assert.Equal(t, 2, mesh.TriangleCount(), "quad fans into two triangles")
	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, [3]int{0, 1, 2}, mesh.Faces[0].V)
	assert.Equal(t, [3]int{0, 2, 3}, mesh.Faces[1].V)

	require.Equal(t, 1, mesh.MaterialCount())
	assert.Equal(t, "paint", mesh.Materials[0].Name)
	assert.Equal(t, 0, mesh.Faces[1].Material)

	assert.Equal(t, math3d.V2(1, 1), mesh.Vertices[2].UV)
	assert.Equal(t, math3d.V3(0, 0, 1), mesh.Vertices[3].Normal)
	assert.Equal(t, math3d.V3(1, 1, 0), mesh.BoundsMax)
}

func TestParseOBJCornerForms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		vertices int
		uv       math3d.Vec2
		normal   math3d.Vec3
	}{
		{
			name:     "position only",
			src:      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			vertices: 3,
			normal:   math3d.V3(0, 0, 1), // generated
		},
		{
			name:     "position and normal",
			src:      "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 -1\nf 1//1 2//1 3//1\n",
			vertices: 3,
			normal:   math3d.V3(0, 0, -1),
		},
		{
			name:     "position and uv",
			src:      "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5 0.25 0\nf 1/1 2/1 3/1\n",
			vertices: 3,
			uv:       math3d.V2(0.5, 0.25),
			normal:   math3d.V3(0, 0, 1),
		},
		{
			name:     "negative indices",
			src:      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n",
			vertices: 3,
			normal:   math3d.V3(0, 0, 1),
		},
		{
			name:     "shared corners deduplicate",
			src:      "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\nf 2 4 3\n",
			vertices: 4,
			normal:   math3d.V3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ParseOBJ(strings.NewReader(tt.src), tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.vertices, mesh.VertexCount())
			assert.Equal(t, tt.uv, mesh.Vertices[0].UV)
			assert.InDelta(t, tt.normal.Z, mesh.Vertices[0].Normal.Z, 1e-9)
		})
	}
}

func TestParseOBJIndexOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		table string
	}{
		{"vertex past end", "v 0 0 0\nf 1 2 3\n", "v"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "v"},
		{"negative past start", "v 0 0 0\nf -1 -2 -1\n", "v"},
		{"uv past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n", "vt"},
		{"normal past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//2 3//1\n", "vn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), "bad")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)

			var ie *IndexError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.table, ie.Table)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestParseOBJMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad float", "v 1 x 3\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad corner", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/a 2 3\n"},
		{"too many slashes", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), "bad")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrIndexOutOfRange)
		})
	}
}

func TestParseOBJIgnoresUnknownRecords(t *testing.T) {
	src := "mtllib x.mtl\ng group\ns 1\nv 0 0 0 # trailing\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "ok")
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, "ok", mesh.Name)
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, "quad.obj", mesh.Name)
	assert.Equal(t, 2, mesh.TriangleCount())

	_, err = LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
