package render

import (
	"image/color"

	"github.com/taigrr/delusion/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors used by the driver and tests.
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 128, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	// ColorFallback is the diffuse color returned for texture lookups that
	// miss the texture.
	ColorFallback = color.RGBA{79, 147, 184, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Pack converts c to the 0x00RRGGBB frame buffer format. Alpha is dropped.
func Pack(c Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack expands a packed pixel into an opaque Color.
func Unpack(p uint32) Color {
	return Color{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 255}
}

// PackVec3 packs a shaded color whose channels are in 0..255. Channels are
// saturated, so out-of-range and NaN values never wrap.
func PackVec3(v math3d.Vec3) uint32 {
	return uint32(saturate(v.X))<<16 | uint32(saturate(v.Y))<<8 | uint32(saturate(v.Z))
}

// ColorFromVec3 saturates a shaded color into a Color.
func ColorFromVec3(v math3d.Vec3) Color {
	return RGB(saturate(v.X), saturate(v.Y), saturate(v.Z))
}

// Vec3FromColor returns the channels of c as a 0..255 vector.
func Vec3FromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R), float64(c.G), float64(c.B))
}

// saturateEps absorbs barycentric rounding, so an interpolated 254.9999999
// still packs as 255.
const saturateEps = 1e-9

// saturate truncates f toward zero into 0..255.
func saturate(f float64) uint8 {
	f += saturateEps
	switch {
	case !(f > 0):
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}
