// Package term implements a headless ppu.FrameSink that renders the
// framebuffer into a terminal using half-block characters, two scanlines
// per cell.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/pkg/display"
)

const upperHalfBlock = '▀'

// Backend renders frames directly to the controlling terminal via tcell.
type Backend struct {
	screen tcell.Screen
}

// New initializes the terminal screen.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	return &Backend{screen: screen}, nil
}

// Close shuts down the terminal screen, restoring normal terminal state.
func (b *Backend) Close() {
	b.screen.Fini()
}

// Present implements ppu.FrameSink, pairing scanlines into half-block cells.
func (b *Backend) Present(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	for y := 0; y < ppu.ScreenHeight; y += 2 {
		for x := 0; x < ppu.ScreenWidth; x++ {
			top := display.Shade[frame[y][x]]
			bottom := top
			if y+1 < ppu.ScreenHeight {
				bottom = display.Shade[frame[y+1][x]]
			}
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top[0]), int32(top[1]), int32(top[2]))).
				Background(tcell.NewRGBColor(int32(bottom[0]), int32(bottom[1]), int32(bottom[2])))
			b.screen.SetContent(x, y/2, upperHalfBlock, nil, style)
		}
	}
	b.screen.Show()
}

// Poll implements display.InputSource from tcell's key event queue.
func (b *Backend) Poll() joypad.Button {
	var held joypad.Button
	for b.screen.HasPendingEvent() {
		ev := b.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		switch key.Rune() {
		case 'w':
			held |= joypad.Up
		case 's':
			held |= joypad.Down
		case 'a':
			held |= joypad.Left
		case 'd':
			held |= joypad.Right
		case 'j':
			held |= joypad.B
		case 'k':
			held |= joypad.A
		}
	}
	return held
}
