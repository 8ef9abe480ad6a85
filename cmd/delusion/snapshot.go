package main

import (
	"context"
	"fmt"
	"image"

	"github.com/taigrr/delusion/pkg/render"
)

// runSnapshot renders one frame and writes it to the scene's output path.
// The frame is resampled by the scene scale and captioned with the title.
func runSnapshot(ctx context.Context, v *viewer) error {
	if err := v.render(ctx); err != nil {
		return err
	}

	fb := v.d.FrameBuffer()
	var img *image.RGBA
	if s := v.scene.Scale; s != 1 {
		w := max(1, int(float64(fb.Width)*s))
		h := max(1, int(float64(fb.Height)*s))
		img = fb.Scale(w, h)
	} else {
		img = fb.ToImage()
	}

	render.DrawText(img, v.title(), render.ColorWhite, render.RGB(0, 0, 0))

	if err := render.SaveImage(v.scene.Output, img); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	v.log.Info().
		Str("path", v.scene.Output).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Dur("frame", v.frame).
		Msg("snapshot written")
	return nil
}
