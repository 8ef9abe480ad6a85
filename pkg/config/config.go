// Package config holds the scene description: frame size, camera, light,
// shading and the model to render. It loads from YAML and takes CLI
// overrides on top.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/render"
	"github.com/taigrr/delusion/pkg/shader"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Vec is a point or direction written as [x, y, z].
type Vec [3]float64

// Vec3 converts v.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// RGB is a color written as [r, g, b] with channels in 0..255.
type RGB [3]int

// Color converts c, saturating each channel.
func (c RGB) Color() render.Color {
	ch := func(i int) uint8 {
		return uint8(max(0, min(255, c[i])))
	}
	return render.RGB(ch(0), ch(1), ch(2))
}

// Model places the rendered asset.
type Model struct {
	Path      string  `yaml:"path"`
	Axis      Vec     `yaml:"axis"`
	Angle     float64 `yaml:"angle"` // degrees
	Scale     float64 `yaml:"scale"`
	Normalize bool    `yaml:"normalize"` // center and fit into [-1,1]^3
}

// Tiles configures tile-parallel rendering. Workers <= 1 renders on the
// calling goroutine.
type Tiles struct {
	Size    int `yaml:"size"`
	Workers int `yaml:"workers"`
}

// Scene is the full render configuration.
type Scene struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Fill   float64 `yaml:"fill"`

	Eye    Vec `yaml:"eye"`
	Target Vec `yaml:"target"`
	Up     Vec `yaml:"up"`
	Light  Vec `yaml:"light"`

	Shader string `yaml:"shader"`
	MSAA   string `yaml:"msaa"` // "4x" | "disable"

	Clear    RGB `yaml:"clear"`
	ClearAlt RGB `yaml:"clear_alt"`

	Model Model `yaml:"model"`
	Tiles Tiles `yaml:"tiles"`

	Output string  `yaml:"output,omitempty"`
	Scale  float64 `yaml:"scale"` // snapshot resample factor
}

// Default returns the startup scene of the interactive viewer.
func Default() Scene {
	return Scene{
		Width:  800,
		Height: 800,
		Fill:   0.75,

		Eye:    Vec{0, 1, 3},
		Target: Vec{0, 0, 0},
		Up:     Vec{0, 1, 0},
		Light:  Vec{1, 1, 1},

		Shader: "phong-specular",
		MSAA:   render.MSAAX4.String(),

		Clear:    RGB{255, 255, 255},
		ClearAlt: RGB{5, 5, 5},

		Model: Model{
			Axis:  Vec{0, 1, 0},
			Scale: 1,
		},
		Tiles: Tiles{
			Size:    render.DefaultTileSize,
			Workers: 1,
		},
		Scale: 1,
	}
}

// Load reads a YAML scene file. Fields absent from the file keep their
// Default values.
func Load(path string) (Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Scene{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

// Save writes s as YAML.
func Save(path string, s Scene) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Flags holds CLI values that override the scene file. Zero values leave
// the scene untouched.
type Flags struct {
	Model   string
	Shader  string
	MSAA    string
	Fill    float64
	Size    string // "WxH"
	Output  string
	Scale   float64
	Tile    int
	Workers int
}

// Resolve applies non-zero flags on top of s.
func (s *Scene) Resolve(f Flags) error {
	if f.Model != "" {
		s.Model.Path = f.Model
	}
	if f.Shader != "" {
		s.Shader = f.Shader
	}
	if f.MSAA != "" {
		s.MSAA = f.MSAA
	}
	if f.Fill > 0 {
		s.Fill = f.Fill
	}
	if f.Size != "" {
		w, h, err := ParseSize(f.Size)
		if err != nil {
			return err
		}
		s.Width, s.Height = w, h
	}
	if f.Output != "" {
		s.Output = f.Output
	}
	if f.Scale > 0 {
		s.Scale = f.Scale
	}
	if f.Tile > 0 {
		s.Tiles.Size = f.Tile
	}
	if f.Workers > 0 {
		s.Tiles.Workers = f.Workers
	}
	return nil
}

// ParseSize parses "WxH".
func ParseSize(v string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(v), "x")
	if ok {
		w, err = strconv.Atoi(ws)
		if err == nil {
			h, err = strconv.Atoi(hs)
		}
	}
	if !ok || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: size %q, want WxH", ErrInvalid, v)
	}
	return w, h, nil
}

// Validate reports every problem with s. Each wraps ErrInvalid.
func (s Scene) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.Width <= 0 || s.Height <= 0 {
		bad("frame %dx%d", s.Width, s.Height)
	}
	if !(s.Fill > 0 && s.Fill <= 1) {
		bad("fill %v not in (0,1]", s.Fill)
	}
	if s.Eye == s.Target {
		bad("eye and target coincide at %v", s.Eye)
	}
	if s.Up.Vec3().Cross(s.Eye.Vec3().Sub(s.Target.Vec3())).LenSq() == 0 {
		bad("up %v is parallel to the view direction", s.Up)
	}
	if s.Light.Vec3().LenSq() == 0 {
		bad("light direction is zero")
	}
	if _, err := shader.ByName(s.Shader); err != nil {
		bad("%v", err)
	}
	if _, err := render.ParseMSAAMode(s.MSAA); err != nil {
		bad("%v", err)
	}
	for _, c := range []struct {
		name string
		rgb  RGB
	}{{"clear", s.Clear}, {"clear_alt", s.ClearAlt}} {
		for _, ch := range c.rgb {
			if ch < 0 || ch > 255 {
				bad("%s channel %d not in 0..255", c.name, ch)
				break
			}
		}
	}
	if s.Model.Axis.Vec3().LenSq() == 0 {
		bad("model axis is zero")
	}
	if s.Model.Scale == 0 || math.IsNaN(s.Model.Scale) {
		bad("model scale %v", s.Model.Scale)
	}
	if s.Tiles.Size < 0 || s.Tiles.Workers < 0 {
		bad("tiles %+v", s.Tiles)
	}
	if !(s.Scale > 0) {
		bad("scale %v", s.Scale)
	}
	return errors.Join(errs...)
}

// LightDir returns the normalized light direction.
func (s Scene) LightDir() math3d.Vec3 {
	return s.Light.Vec3().Normalize()
}

// MSAAMode returns the parsed MSAA mode, disabled when unparseable.
func (s Scene) MSAAMode() render.MSAAMode {
	m, _ := render.ParseMSAAMode(s.MSAA)
	return m
}

// ModelMatrix returns the model transform.
func (s Scene) ModelMatrix() math3d.Mat4 {
	return math3d.ModelMatrix(s.Model.Axis.Vec3(), s.Model.Angle, s.Model.Scale)
}
