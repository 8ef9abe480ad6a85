package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/delusion/pkg/render"
)

// terminalKeys map key strings, as matched by uv.KeyPressEvent, to actions.
var terminalKeys = []struct {
	keys []string
	act  action
}{
	{[]string{"left"}, actEyeLeft},
	{[]string{"right"}, actEyeRight},
	{[]string{"up"}, actEyeUp},
	{[]string{"down"}, actEyeDown},
	{[]string{"a"}, actLightLeft},
	{[]string{"d"}, actLightRight},
	{[]string{"w"}, actLightUp},
	{[]string{"s"}, actLightDown},
	{[]string{"q"}, actToggleClear},
	{[]string{"m"}, actMSAAOff},
	{[]string{"n"}, actMSAAOn},
	{[]string{"i"}, actPitchUp},
	{[]string{"k"}, actPitchDown},
	{[]string{"j"}, actYawLeft},
	{[]string{"l"}, actYawRight},
	{[]string{"-", "_"}, actShrink},
	{[]string{"=", "+"}, actGrow},
	{[]string{"space"}, actSpin},
	{[]string{"x"}, actWireframe},
	{[]string{"escape", "ctrl+c"}, actQuit},
}

func terminalAction(ev uv.KeyPressEvent) action {
	for _, k := range terminalKeys {
		if ev.MatchString(k.keys...) {
			return k.act
		}
	}
	return actNone
}

// terminalEvent is either a key action or a new terminal size.
type terminalEvent struct {
	act        action
	cols, rows int
}

// pumpEvents forwards resizes and mapped keys from in to out until in closes
// or ctx ends.
func pumpEvents(ctx context.Context, in <-chan uv.Event, out chan<- terminalEvent) {
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return
		case e, ok := <-in:
			if !ok {
				return
			}
			ev = e
		}

		var te terminalEvent
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			te.cols, te.rows = ev.Width, ev.Height
		case uv.KeyPressEvent:
			if te.act = terminalAction(ev); te.act == actNone {
				continue
			}
		default:
			continue
		}
		select {
		case out <- te:
		case <-ctx.Done():
			return
		}
	}
}

// runTerminal renders into the terminal with half-block cells until Esc
// or ctx ends. The frame follows the terminal size.
func runTerminal(ctx context.Context, v *viewer, fps int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			v.log.Warn().Err(err).Msg("terminal shutdown")
		}
	}()

	if err := term.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	v.resize(render.TerminalSize(cols, rows))
	presenter := render.NewTerminalPresenter(term)

	events := make(chan terminalEvent, 64)
	go pumpEvents(ctx, term.Events(), events)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case te := <-events:
			if te.cols > 0 && te.rows > 0 {
				term.Erase()
				if err := term.Resize(te.cols, te.rows); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				v.resize(render.TerminalSize(te.cols, te.rows))
				continue
			}
			if !v.apply(te.act) {
				return nil
			}
		case <-ticker.C:
			if err := v.render(ctx); err != nil {
				return err
			}
			if err := presenter.Present(v.d.FrameBuffer()); err != nil {
				return err
			}
		}
	}
}
