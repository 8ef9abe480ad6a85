package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"

	"github.com/taigrr/delusion/pkg/math3d"
)

// Texture holds a 2D image for texture mapping. Pixels are stored top row
// first, as decoded.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from a TGA, PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}

	img, format, err := DecodeImage(data, path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return TextureFromImage(img), nil
}

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8}
)

// DecodeImage decodes PNG and JPEG by their magic bytes and anything else
// as TGA. name is only consulted for its extension.
//
// The TGA decoder registers an empty magic with the image package, which
// shadows every later format, so image.Decode cannot be used here.
func DecodeImage(data []byte, name string) (image.Image, string, error) {
	r := bytes.NewReader(data)
	switch {
	case strings.EqualFold(filepath.Ext(name), ".tga"):
		img, err := tga.Decode(r)
		return img, "tga", err
	case bytes.HasPrefix(data, pngMagic):
		img, err := png.Decode(r)
		return img, "png", err
	case bytes.HasPrefix(data, jpegMagic):
		img, err := jpeg.Decode(r)
		return img, "jpeg", err
	}
	img, err := tga.Decode(r)
	return img, "tga", err
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewSolidTexture creates a single-color texture.
func NewSolidTexture(width, height int, c Color) *Texture {
	tex := NewTexture(width, height)
	for i := range tex.Pixels {
		tex.Pixels[i] = c
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the nearest texel at uv, with v = 0 at the bottom row.
// ok is false for a nil or empty texture and for uv outside [0,1]², so
// callers can substitute their fallback.
func (t *Texture) Sample(uv math3d.Vec2) (c Color, ok bool) {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return Color{}, false
	}
	if !(uv.X >= 0 && uv.X <= 1 && uv.Y >= 0 && uv.Y <= 1) {
		return Color{}, false
	}
	x := min(int(uv.X*float64(t.Width)), t.Width-1)
	y := t.Height - 1 - min(int(uv.Y*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x], true
}

// UnpackNormal maps the RGB channels of a normal-map texel from [0,255] to
// a vector in [-1,1]³.
func UnpackNormal(c Color) math3d.Vec3 {
	return math3d.V3(
		float64(c.R)/255*2-1,
		float64(c.G)/255*2-1,
		float64(c.B)/255*2-1,
	)
}

// PackNormal is the inverse of UnpackNormal, rounding to the nearest
// channel value.
func PackNormal(n math3d.Vec3) Color {
	pack := func(f float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(255, (f+1)/2*255))))
	}
	return RGB(pack(n.X), pack(n.Y), pack(n.Z))
}
