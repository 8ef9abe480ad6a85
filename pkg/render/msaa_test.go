package render

import (
	"math"
	"testing"

	"github.com/taigrr/delusion/pkg/math3d"
)

func TestSampleOffsets(t *testing.T) {
	offsets := SampleOffsets()
	radius := math.Sqrt(2) * 0.25
	var sum math3d.Vec2
	for i, off := range offsets {
		if math.Abs(off.Len()-radius) > 1e-12 {
			t.Errorf("offset %d length = %v, want %v", i, off.Len(), radius)
		}
		if math.Abs(off.X) == math.Abs(off.Y) {
			t.Errorf("offset %d = %v lies on a diagonal; grid is not rotated", i, off)
		}
		sum = sum.Add(off)
	}
	if sum.Len() > 1e-12 {
		t.Errorf("offsets are not centered on the pixel: sum %v", sum)
	}
}

func TestMsaaTensor(t *testing.T) {
	tests := []struct {
		name   string
		tensor MsaaTensor
		hits   int
		depth  float64
		color  math3d.Vec3
	}{
		{"empty", MsaaTensor{}, 0, 0, math3d.Vec3{}},
		{
			"one sample",
			MsaaTensor{
				Mask:  [Samples]bool{false, true, false, false},
				Depth: [Samples]float64{0, 12, 0, 0},
				Color: [Samples]math3d.Vec3{{}, math3d.V3(10, 20, 30), {}, {}},
			},
			1, 12, math3d.V3(10, 20, 30),
		},
		{
			"three samples",
			MsaaTensor{
				Mask:  [Samples]bool{true, true, false, true},
				Depth: [Samples]float64{3, 6, 100, 9},
				Color: [Samples]math3d.Vec3{math3d.V3(30, 0, 0), math3d.V3(0, 30, 0), math3d.V3(255, 255, 255), math3d.V3(0, 0, 30)},
			},
			3, 6, math3d.V3(10, 10, 10),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tensor.Hits(); got != tc.hits {
				t.Errorf("Hits() = %d, want %d", got, tc.hits)
			}
			depth, color := tc.tensor.Average()
			if depth != tc.depth || color != tc.color {
				t.Errorf("Average() = %v, %v, want %v, %v", depth, color, tc.depth, tc.color)
			}
		})
	}
}

func TestMSAAModeString(t *testing.T) {
	if MSAAX4.String() != "4x" || MSAADisable.String() != "Disable" {
		t.Errorf("labels = %q, %q", MSAAX4.String(), MSAADisable.String())
	}
}

func TestParseMSAAMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MSAAMode
		wantErr bool
	}{
		{"4x", MSAAX4, false},
		{"4X", MSAAX4, false},
		{" on ", MSAAX4, false},
		{"Disable", MSAADisable, false},
		{"off", MSAADisable, false},
		{"8x", MSAADisable, true},
		{"", MSAADisable, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMSAAMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("mode = %v, want %v", got, tt.want)
			}
		})
	}

	// Labels round-trip.
	for _, m := range []MSAAMode{MSAADisable, MSAAX4} {
		if got, err := ParseMSAAMode(m.String()); err != nil || got != m {
			t.Errorf("ParseMSAAMode(%q) = %v, %v", m.String(), got, err)
		}
	}
}
