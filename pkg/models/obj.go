package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/delusion/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mesh, nil
}

// objCorner is one resolved face corner; -1 marks an absent attribute.
type objCorner struct {
	v, vt, vn int
}

type objParser struct {
	mesh      *Mesh
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3
	corners   map[objCorner]int
	material  int
	line      int
}

// ParseOBJ reads OBJ records from r. Polygons are fan-triangulated and
// corners sharing the same v/vt/vn triple share a vertex. Vertex normals
// are computed when the file has none.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	p := &objParser{
		mesh:     NewMesh(name),
		corners:  make(map[objCorner]int),
		material: -1,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(p.normals) == 0 {
		p.mesh.CalculateSmoothNormals()
	}
	p.mesh.CalculateBounds()
	return p.mesh, nil
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		xyz, err := parseFloats(fields[1:], 3, 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.positions = append(p.positions, math3d.V3(xyz[0], xyz[1], xyz[2]))
	case "vt":
		uv, err := parseFloats(fields[1:], 1, 2)
		if err != nil {
			return fmt.Errorf("texture coordinate: %w", err)
		}
		p.uvs = append(p.uvs, math3d.V2(uv[0], uv[1]))
	case "vn":
		n, err := parseFloats(fields[1:], 3, 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.normals = append(p.normals, math3d.V3(n[0], n[1], n[2]))
	case "f":
		return p.parseFace(fields[1:])
	case "o":
		if len(fields) > 1 && p.mesh.Name == "" {
			p.mesh.Name = fields[1]
		}
	case "usemtl":
		if len(fields) > 1 {
			p.material = p.mesh.materialIndex(fields[1])
		}
	}
	// g, s, mtllib and unknown records carry nothing the rasterizer uses.
	return nil
}

func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs 3 corners, got %d", len(fields))
	}

	face := len(p.mesh.Faces)
	idx := make([]int, len(fields))
	for slot, field := range fields {
		c, err := p.parseCorner(field, face, slot)
		if err != nil {
			return err
		}
		idx[slot] = p.vertex(c)
	}

	for i := 1; i+1 < len(idx); i++ {
		p.mesh.Faces = append(p.mesh.Faces, Face{
			V:        [3]int{idx[0], idx[i], idx[i+1]},
			Material: p.material,
		})
	}
	return nil
}

// parseCorner resolves "v", "v/vt", "v//vn" or "v/vt/vn".
func (p *objParser) parseCorner(field string, face, slot int) (objCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 || parts[0] == "" {
		return objCorner{}, fmt.Errorf("malformed face corner %q", field)
	}

	c := objCorner{v: -1, vt: -1, vn: -1}
	tables := []struct {
		name string
		n    int
		dst  *int
	}{
		{"v", len(p.positions), &c.v},
		{"vt", len(p.uvs), &c.vt},
		{"vn", len(p.normals), &c.vn},
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		raw, err := strconv.Atoi(part)
		if err != nil {
			return objCorner{}, fmt.Errorf("face corner %q: %w", field, err)
		}
		t := tables[i]
		ix, ok := resolveIndex(raw, t.n)
		if !ok {
			return objCorner{}, &IndexError{Table: t.name, Face: face, Slot: slot, Index: raw, Len: t.n}
		}
		*t.dst = ix
	}
	return c, nil
}

// vertex returns the mesh vertex for c, adding it on first use.
func (p *objParser) vertex(c objCorner) int {
	if i, ok := p.corners[c]; ok {
		return i
	}
	v := MeshVertex{Position: p.positions[c.v]}
	if c.vt >= 0 {
		v.UV = p.uvs[c.vt]
	}
	if c.vn >= 0 {
		v.Normal = p.normals[c.vn]
	}
	i := len(p.mesh.Vertices)
	p.mesh.Vertices = append(p.mesh.Vertices, v)
	p.corners[c] = i
	return i
}

// resolveIndex maps a 1-based or negative relative OBJ index onto [0,n).
func resolveIndex(raw, n int) (int, bool) {
	var i int
	switch {
	case raw > 0:
		i = raw - 1
	case raw < 0:
		i = n + raw
	default:
		return 0, false
	}
	return i, i >= 0 && i < n
}

// parseFloats parses between need and want leading fields; extra fields
// are ignored and missing optional ones are zero.
func parseFloats(fields []string, need, want int) ([]float64, error) {
	if len(fields) < need {
		return nil, fmt.Errorf("need %d values, got %d", need, len(fields))
	}
	out := make([]float64, want)
	for i := 0; i < want && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
