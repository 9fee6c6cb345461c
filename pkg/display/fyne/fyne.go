// Package fyne implements a ppu.FrameSink backed by a Fyne window
// and raster canvas.
package fyne

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/pkg/display"
)

// Backend owns a Fyne application, main window and the raster canvas the
// framebuffer is copied into on every Present call.
type Backend struct {
	app    fyne.App
	window fyne.Window
	img    *image.RGBA
	raster *canvas.Raster
	scale  float64
}

// New creates the Fyne window at the given integer scale factor.
func New(scale float64) *Backend {
	b := &Backend{scale: scale}
	b.app = app.NewWithID("gbcore")
	b.window = b.app.NewWindow("gbcore")
	b.img = image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))

	b.raster = canvas.NewRasterFromImage(b.img)
	b.raster.ScaleMode = canvas.ImageScalePixels
	b.window.SetContent(b.raster)
	b.window.Resize(fyne.NewSize(float32(ppu.ScreenWidth)*float32(scale), float32(ppu.ScreenHeight)*float32(scale)))
	return b
}

// Run shows the window and blocks until it is closed, per Fyne's app model.
func (b *Backend) Run() {
	b.window.ShowAndRun()
}

// Present implements ppu.FrameSink.
func (b *Backend) Present(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			rgb := display.Shade[frame[y][x]]
			b.img.Set(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF})
		}
	}
	b.raster.Refresh()
}
