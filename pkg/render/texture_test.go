package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"

	"github.com/taigrr/delusion/pkg/math3d"
)

func TestTextureSample(t *testing.T) {
	// 2x2: top row red, green; bottom row blue, white.
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorGreen)
	tex.SetPixel(0, 1, ColorBlue)
	tex.SetPixel(1, 1, ColorWhite)

	tests := []struct {
		name string
		uv   math3d.Vec2
		want Color
		ok   bool
	}{
		{"bottom left", math3d.V2(0.1, 0.1), ColorBlue, true},
		{"bottom right", math3d.V2(0.9, 0.1), ColorWhite, true},
		{"top left", math3d.V2(0.1, 0.9), ColorRed, true},
		{"top right edge", math3d.V2(1, 1), ColorGreen, true},
		{"negative u", math3d.V2(-0.1, 0.5), Color{}, false},
		{"v above one", math3d.V2(0.5, 1.01), Color{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tex.Sample(tc.uv)
			if ok != tc.ok || got != tc.want {
				t.Errorf("Sample(%v) = %v, %v, want %v, %v", tc.uv, got, ok, tc.want, tc.ok)
			}
		})
	}

	t.Run("nil texture", func(t *testing.T) {
		var nilTex *Texture
		if _, ok := nilTex.Sample(math3d.V2(0.5, 0.5)); ok {
			t.Error("nil texture reported a sample")
		}
	})
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	tex := TextureFromImage(img)
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(2, 1); got != RGB(10, 20, 30) {
		t.Errorf("pixel = %v", got)
	}
	if got := tex.GetPixel(5, 5); got != (Color{}) {
		t.Errorf("out of bounds pixel = %v", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)
	if tex.GetPixel(0, 0) != ColorWhite || tex.GetPixel(2, 0) != ColorBlack || tex.GetPixel(2, 2) != ColorWhite {
		t.Error("checker pattern is wrong")
	}
}

func TestNormalRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := RGB(uint8(v), uint8(255-v), uint8(v/2))
		n := UnpackNormal(c)
		if n.X < -1 || n.X > 1 || n.Y < -1 || n.Y > 1 || n.Z < -1 || n.Z > 1 {
			t.Fatalf("UnpackNormal(%v) = %v outside [-1,1]", c, n)
		}
		if got := PackNormal(n); got != c {
			t.Fatalf("PackNormal(UnpackNormal(%v)) = %v", c, got)
		}
	}

	flat := UnpackNormal(RGB(128, 128, 255))
	if flat.Z != 1 || flat.X <= 0 || flat.X > 0.01 {
		t.Errorf("flat normal = %v", flat)
	}
}

func TestLoadTextureMissing(t *testing.T) {
	if _, err := LoadTexture("testdata/does-not-exist.tga"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadTextureFormats(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			src.SetNRGBA(x, y, color.NRGBA{180, 60, 20, 255})
		}
	}

	tests := []struct {
		file   string
		encode func(io.Writer, image.Image) error
		format string
		tol    int
	}{
		{"tex.png", png.Encode, "png", 0},
		{"tex.jpg", func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
		}, "jpeg", 6},
		{"tex.tga", tga.Encode, "tga", 0},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.encode(&buf, src); err != nil {
				t.Fatalf("encode: %v", err)
			}
			path := filepath.Join(t.TempDir(), tc.file)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatal(err)
			}

			_, format, err := DecodeImage(buf.Bytes(), path)
			if err != nil || format != tc.format {
				t.Fatalf("DecodeImage = %q, %v; want %q", format, err, tc.format)
			}

			tex, err := LoadTexture(path)
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			if tex.Width != 8 || tex.Height != 8 {
				t.Fatalf("size = %dx%d, want 8x8", tex.Width, tex.Height)
			}
			got := tex.GetPixel(3, 3)
			for i, ch := range [][2]uint8{{got.R, 180}, {got.G, 60}, {got.B, 20}} {
				if d := int(ch[0]) - int(ch[1]); d > tc.tol || d < -tc.tol {
					t.Errorf("channel %d = %d, want %d", i, ch[0], ch[1])
				}
			}
		})
	}
}

func TestDecodeImageBadTGA(t *testing.T) {
	if _, _, err := DecodeImage([]byte{1, 2, 3}, "bad.tga"); err == nil {
		t.Error("expected error for truncated TGA")
	}
}
