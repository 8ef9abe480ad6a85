package main

import (
	"context"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestTerminalAction(t *testing.T) {
	tests := []struct {
		name string
		key  uv.KeyPressEvent
		want action
	}{
		{"letter", uv.KeyPressEvent{Code: 'q', Text: "q"}, actToggleClear},
		{"arrow", uv.KeyPressEvent{Code: uv.KeyLeft}, actEyeLeft},
		{"space", uv.KeyPressEvent{Code: uv.KeySpace, Text: " "}, actSpin},
		{"escape", uv.KeyPressEvent{Code: uv.KeyEscape}, actQuit},
		{"ctrl+c", uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}, actQuit},
		{"plus", uv.KeyPressEvent{Code: '+', Text: "+"}, actGrow},
		{"unbound", uv.KeyPressEvent{Code: 'z', Text: "z"}, actNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := terminalAction(tt.key); got != tt.want {
				t.Errorf("terminalAction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPumpEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan uv.Event)
	out := make(chan terminalEvent, 4)
	done := make(chan struct{})
	go func() {
		pumpEvents(ctx, in, out)
		close(done)
	}()

	in <- uv.KeyPressEvent{Code: 'z', Text: "z"}
	in <- uv.WindowSizeEvent{Width: 80, Height: 24}
	in <- uv.KeyPressEvent{Code: 'x', Text: "x"}

	if te := <-out; te.cols != 80 || te.rows != 24 {
		t.Errorf("resize event = %+v", te)
	}
	if te := <-out; te.act != actWireframe {
		t.Errorf("key event = %+v, want wireframe", te)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pumpEvents still running after cancel")
	}
}

func TestPumpEventsClosedInput(t *testing.T) {
	in := make(chan uv.Event)
	close(in)
	done := make(chan struct{})
	go func() {
		pumpEvents(context.Background(), in, make(chan terminalEvent))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pumpEvents did not stop on closed input")
	}
}
