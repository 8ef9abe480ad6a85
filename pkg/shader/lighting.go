package shader

import (
	"math"

	"github.com/taigrr/delusion/pkg/math3d"
)

var (
	// ToonColor is the base color of the banded toon shader.
	ToonColor = math3d.V3(79, 147, 184)
	// White is full-intensity white.
	White = math3d.V3(255, 255, 255)
)

const (
	ambient    = 5.0
	colorLimit = 235.0
)

// lambert returns the diffuse term max(0, n·l).
func lambert(n, l math3d.Vec3) float64 {
	return math.Max(0, n.Dot(l))
}

// phongSpecular returns max(0, r.z)^exp with r the reflection of l about n.
func phongSpecular(n, l math3d.Vec3, exp float64) float64 {
	r := n.Scale(2 * n.Dot(l)).Sub(l).Normalize()
	return math.Pow(math.Max(0, r.Z), exp)
}

// combine applies min(235, 5 + tex·(diff+spec)) per channel.
func combine(tex math3d.Vec3, diff, spec float64) math3d.Vec3 {
	return tex.Scale(diff + spec).AddScalar(ambient).MinScalar(colorLimit)
}

// band quantizes a light intensity into the toon steps.
func band(intensity float64) float64 {
	switch {
	case intensity > 0.85:
		return 1
	case intensity > 0.6:
		return 0.8
	case intensity > 0.4:
		return 0.6
	case intensity > 0.3:
		return 0.4
	case intensity > 0.15:
		return 0.3
	}
	return 0
}

// uniforms holds the eye-space matrices of the Phong variants.
type uniforms struct {
	m   math3d.Mat4
	mit math3d.Mat4
}

func newUniforms(m math3d.Mat4) uniforms {
	return uniforms{m: m, mit: m.InverseTranspose()}
}

// SetUniform replaces M and recomputes its inverse transpose.
func (u *uniforms) SetUniform(m math3d.Mat4) {
	*u = newUniforms(m)
}

// eyeLight returns normalize((M·(l,1)).xyz).
func (u *uniforms) eyeLight(l math3d.Vec3) math3d.Vec3 {
	return u.m.MulVec4(math3d.V4FromV3(l, 1)).Vec3().Normalize()
}

// eyeNormal returns normalize((MIT·(n,1)).xyz).
func (u *uniforms) eyeNormal(n math3d.Vec3) math3d.Vec3 {
	return u.mit.MulVec4(math3d.V4FromV3(n, 1)).Vec3().Normalize()
}
