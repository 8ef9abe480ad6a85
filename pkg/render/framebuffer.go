// Package render implements the delusion software rasterizer: packed frame
// buffer, max-wins depth buffer, 4x rotated-grid MSAA and the tile-parallel
// frame path, plus texture sampling and presentation helpers.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// FrameBuffer is a grid of packed 0x00RRGGBB pixels.
//
// Set and At take raster coordinates with y pointing up; the backing slice is
// stored top row first, so row 0 of Pix is raster row Height-1. Pix can be
// handed to an image or a window without further flipping.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewFrameBuffer creates a frame buffer with the given dimensions.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// Clear fills the frame buffer with a solid color.
func (fb *FrameBuffer) Clear(c Color) {
	n := len(fb.Pix)
	if n == 0 {
		return
	}
	fb.Pix[0] = Pack(c)
	for i := 1; i < n; i *= 2 {
		copy(fb.Pix[i:], fb.Pix[:i])
	}
}

func (fb *FrameBuffer) index(x, y int) int {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return -1
	}
	return (fb.Height-1-y)*fb.Width + x
}

// Set writes a packed pixel at raster position (x, y).
// Out-of-bounds writes are ignored.
func (fb *FrameBuffer) Set(x, y int, p uint32) {
	if i := fb.index(x, y); i >= 0 {
		fb.Pix[i] = p
	}
}

// At returns the packed pixel at raster position (x, y), or 0 when out of
// bounds.
func (fb *FrameBuffer) At(x, y int) uint32 {
	if i := fb.index(x, y); i >= 0 {
		return fb.Pix[i]
	}
	return 0
}

// Row returns the packed pixel in image coordinates (row 0 at the top).
func (fb *FrameBuffer) Row(col, row int) uint32 {
	if col < 0 || col >= fb.Width || row < 0 || row >= fb.Height {
		return 0
	}
	return fb.Pix[row*fb.Width+col]
}

// DrawLine draws a line between raster positions using Bresenham's
// algorithm.
func (fb *FrameBuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	p := Pack(c)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.Set(x0, y0, p)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the frame buffer to a standard Go image.RGBA.
func (fb *FrameBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.WriteRGBA(img.Pix)
	return img
}

// WriteRGBA expands the frame buffer into dst as 8-bit RGBA, top row first.
// dst must hold at least 4·Width·Height bytes.
func (fb *FrameBuffer) WriteRGBA(dst []byte) {
	for i, p := range fb.Pix {
		o := i * 4
		dst[o] = uint8(p >> 16)
		dst[o+1] = uint8(p >> 8)
		dst[o+2] = uint8(p)
		dst[o+3] = 255
	}
}

// Scale resamples the frame buffer to width×height with a Catmull-Rom
// filter.
func (fb *FrameBuffer) Scale(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), fb.ToImage(), image.Rect(0, 0, fb.Width, fb.Height), draw.Src, nil)
	return dst
}

// SavePNG saves the frame buffer as a PNG file.
func (fb *FrameBuffer) SavePNG(path string) error {
	return writeImage(path, fb.ToImage(), png.Encode)
}

// SaveImage encodes img to path. A ".webp" extension writes lossless WebP,
// anything else writes PNG.
func SaveImage(path string, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return writeImage(path, img, encodeWebP)
	}
	return writeImage(path, img, png.Encode)
}

func encodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

func writeImage(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
