package render

import (
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// overlayFace is the fixed-size face used for HUD text.
var overlayFace = basicfont.Face7x13

// overlayPad is the margin around overlay text in pixels.
const overlayPad = 4

// DrawText draws text onto dst starting at the top-left corner, one line per
// "\n", on a shaded band so it stays readable over any frame.
func DrawText(dst draw.Image, text string, fg, bg Color) {
	lines := strings.Split(text, "\n")
	lineHeight := overlayFace.Metrics().Height.Ceil()

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(overlayFace, line).Ceil())
	}
	band := image.Rect(0, 0, width+2*overlayPad, len(lines)*lineHeight+2*overlayPad).
		Add(dst.Bounds().Min).Intersect(dst.Bounds())
	draw.Draw(dst, band, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: overlayFace,
	}
	origin := dst.Bounds().Min
	for i, line := range lines {
		d.Dot = fixed.P(origin.X+overlayPad, origin.Y+overlayPad+overlayFace.Metrics().Ascent.Ceil()+i*lineHeight)
		d.DrawString(line)
	}
}
