package shader

import (
	"fmt"
	"slices"

	"github.com/taigrr/delusion/pkg/math3d"
)

var registry = map[string]func() Cloner{
	"toon":                  func() Cloner { return NewToon() },
	"gouraud":               func() Cloner { return NewGouraud() },
	"phong":                 func() Cloner { return NewPhongModel() },
	"phong-diffuse":         func() Cloner { return NewPhongDiffuse() },
	"phong-specular":        func() Cloner { return NewPhongSpecular(math3d.Identity()) },
	"phong-normal":          func() Cloner { return NewPhongNormal(math3d.Identity()) },
	"phong-normal-specular": func() Cloner { return NewPhongNormalSpecular(math3d.Identity()) },
}

// ByName returns a fresh shader registered under name. Shaders that
// implement Uniformer start with an identity uniform; the caller sets the
// real projection·camera matrix before rendering.
func ByName(name string) (Cloner, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownShader, name, Names())
	}
	return ctor(), nil
}

// Names returns the registered shader names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
