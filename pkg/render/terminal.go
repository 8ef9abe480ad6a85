package render

import (
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock draws the top pixel as foreground and the bottom as background.
const halfBlock = "▀"

// Draw renders the frame onto scr as half-block cells, so every terminal
// row shows two frame rows. The frame height should be twice the height of
// area. Draw makes a FrameBuffer a uv.Drawable.
func (fb *FrameBuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2
		if top >= fb.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			cell := &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: Unpack(fb.Row(x, top)),
					Bg: Unpack(fb.Row(x, top+1)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the frame dimensions that fill a cols×rows terminal.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// TerminalPresenter copies frames onto a terminal screen.
type TerminalPresenter struct {
	term *uv.Terminal
}

// NewTerminalPresenter wraps a started terminal.
func NewTerminalPresenter(term *uv.Terminal) *TerminalPresenter {
	return &TerminalPresenter{term: term}
}

// Present draws fb and flushes the changed cells to the terminal.
func (p *TerminalPresenter) Present(fb *FrameBuffer) error {
	p.term.Draw(fb)
	if err := p.term.Display(); err != nil {
		return fmt.Errorf("display frame: %w", err)
	}
	return nil
}
