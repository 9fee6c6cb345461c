// Package sdl2 implements a ppu.FrameSink and display.InputSource backed by
// SDL2 bindings: a 160x144 streaming texture stretched to the scaled window,
// and keyboard polling translated into joypad.Button state.
package sdl2

import (
	"fmt"

	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/pkg/display"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend owns the SDL window, renderer and the streaming texture the
// framebuffer is blitted into on every Present call.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixels []byte
}

// New opens an SDL2 window scaled by the given integer factor.
func New(scale int) (*Backend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl2: init: %w", err)
	}

	window, err := sdl.CreateWindow(
		"gbcore",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(ppu.ScreenWidth*scale), int32(ppu.ScreenHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: creating renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_RGBA32),
		sdl.TEXTUREACCESS_STREAMING,
		int32(ppu.ScreenWidth), int32(ppu.ScreenHeight),
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: creating texture: %w", err)
	}

	return &Backend{
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4),
	}, nil
}

// Close tears down the SDL2 window and subsystem.
func (b *Backend) Close() {
	b.texture.Destroy()
	b.renderer.Destroy()
	b.window.Destroy()
	sdl.Quit()
}

// Present implements ppu.FrameSink.
func (b *Backend) Present(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			rgb := display.Shade[frame[y][x]]
			off := (y*ppu.ScreenWidth + x) * 4
			b.pixels[off] = rgb[0]
			b.pixels[off+1] = rgb[1]
			b.pixels[off+2] = rgb[2]
			b.pixels[off+3] = 0xFF
		}
	}
	b.texture.Update(nil, b.pixels, ppu.ScreenWidth*4)
	b.renderer.Clear()
	b.renderer.Copy(b.texture, nil, nil)
	b.renderer.Present()
}

var keymap = map[sdl.Keycode]joypad.Button{
	sdl.K_RIGHT: joypad.Right, sdl.K_LEFT: joypad.Left,
	sdl.K_UP: joypad.Up, sdl.K_DOWN: joypad.Down,
	sdl.K_z: joypad.A, sdl.K_x: joypad.B,
	sdl.K_RSHIFT: joypad.Select, sdl.K_RETURN: joypad.Start,
}

// Poll implements display.InputSource by draining the SDL event queue and
// returning the currently-held button mask.
func (b *Backend) Poll() joypad.Button {
	var held joypad.Button
	keys := sdl.GetKeyboardState()
	for code, btn := range keymap {
		scancode := sdl.GetScancodeFromKey(code)
		if keys[scancode] != 0 {
			held |= btn
		}
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			held = 0
		}
	}
	return held
}
