package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/delusion/pkg/math3d"
)

// MSAAMode selects the anti-aliasing mode of a Delusion.
type MSAAMode int

const (
	MSAADisable MSAAMode = iota // one sample at the pixel position
	MSAAX4                      // four rotated-grid subsamples
)

// String returns the label shown in the window title.
func (m MSAAMode) String() string {
	switch m {
	case MSAAX4:
		return "4x"
	default:
		return "Disable"
	}
}

// ParseMSAAMode accepts "4x" or "disable" in any case, plus the aliases
// "x4", "on", "off" and "none".
func ParseMSAAMode(s string) (MSAAMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4x", "x4", "on":
		return MSAAX4, nil
	case "disable", "off", "none":
		return MSAADisable, nil
	}
	return MSAADisable, fmt.Errorf("unknown msaa mode %q", s)
}

// Samples is the number of subsamples per pixel in MSAAX4 mode.
const Samples = 4

// sampleRotation is the rotated-grid angle in degrees.
const sampleRotation = -26.6

// sampleOffsets are the subsample positions relative to the pixel: the
// corners of a ±0.25 square rotated by sampleRotation.
var sampleOffsets = func() [Samples]math3d.Vec2 {
	base := [Samples]math3d.Vec2{
		math3d.V2(-0.25, -0.25),
		math3d.V2(-0.25, 0.25),
		math3d.V2(0.25, 0.25),
		math3d.V2(0.25, -0.25),
	}
	r := math3d.Rotate2D(sampleRotation)
	for i, off := range base {
		base[i] = r.MulVec2(off)
	}
	return base
}()

// SampleOffsets returns the rotated subsample offsets.
func SampleOffsets() [Samples]math3d.Vec2 {
	return sampleOffsets
}

// MsaaTensor is the per-pixel subsample record: coverage, depth and shaded
// color of each of the four samples for the most recent triangle that
// touched the pixel. Entries of uncovered samples are zero.
type MsaaTensor struct {
	Mask  [Samples]bool
	Depth [Samples]float64
	Color [Samples]math3d.Vec3
}

// Hits returns the number of covered subsamples.
func (t *MsaaTensor) Hits() int {
	n := 0
	for _, m := range t.Mask {
		if m {
			n++
		}
	}
	return n
}

// Average returns the mean depth and color over the covered subsamples.
// The result is zero when nothing is covered.
func (t *MsaaTensor) Average() (float64, math3d.Vec3) {
	var depth float64
	var color math3d.Vec3
	n := 0
	for i, m := range t.Mask {
		if !m {
			continue
		}
		depth += t.Depth[i]
		color = color.Add(t.Color[i])
		n++
	}
	if n == 0 {
		return 0, math3d.Vec3{}
	}
	return depth / float64(n), color.Div(float64(n))
}
