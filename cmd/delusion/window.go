package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// windowKeys act on key release.
var windowKeys = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyArrowLeft, actEyeLeft},
	{ebiten.KeyArrowRight, actEyeRight},
	{ebiten.KeyArrowUp, actEyeUp},
	{ebiten.KeyArrowDown, actEyeDown},
	{ebiten.KeyA, actLightLeft},
	{ebiten.KeyD, actLightRight},
	{ebiten.KeyW, actLightUp},
	{ebiten.KeyS, actLightDown},
	{ebiten.KeyQ, actToggleClear},
	{ebiten.KeyM, actMSAAOff},
	{ebiten.KeyN, actMSAAOn},
	{ebiten.KeyI, actPitchUp},
	{ebiten.KeyK, actPitchDown},
	{ebiten.KeyJ, actYawLeft},
	{ebiten.KeyL, actYawRight},
	{ebiten.KeyMinus, actShrink},
	{ebiten.KeyEqual, actGrow},
	{ebiten.KeySpace, actSpin},
	{ebiten.KeyX, actWireframe},
}

// windowGame presents the viewer in a desktop window.
type windowGame struct {
	ctx  context.Context
	v    *viewer
	img  *ebiten.Image
	rgba []byte
}

// runWindow blocks until the window closes, Esc is pressed or ctx ends.
func runWindow(ctx context.Context, v *viewer, fps int) error {
	ebiten.SetWindowTitle(v.title())
	ebiten.SetWindowSize(v.d.Width(), v.d.Height())
	ebiten.SetTPS(fps)

	err := ebiten.RunGame(&windowGame{ctx: ctx, v: v})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, k := range windowKeys {
		if inpututil.IsKeyJustReleased(k.key) && !g.v.apply(k.act) {
			return ebiten.Termination
		}
	}

	if err := g.v.render(g.ctx); err != nil {
		return err
	}
	ebiten.SetWindowTitle(g.v.title())
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	fb := g.v.d.FrameBuffer()
	if g.img == nil || g.img.Bounds().Dx() != fb.Width || g.img.Bounds().Dy() != fb.Height {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(fb.Width, fb.Height)
		g.rgba = make([]byte, 4*fb.Width*fb.Height)
	}

	fb.WriteRGBA(g.rgba)
	g.img.WritePixels(g.rgba)
	screen.DrawImage(g.img, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.v.d.Width(), g.v.d.Height()
}
