// Package web implements a ppu.FrameSink that streams frames to
// connected browsers over a websocket, and an InputSource fed by button
// events the same clients send back.
package web

import (
	"net/http"
	"sync"

	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"
	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/pkg/display"
)

// compressionQuality is the brotli quality level applied to every outgoing
// frame; browsers decompress client-side before blitting to a canvas.
const compressionQuality = 5

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: ppu.ScreenWidth * ppu.ScreenHeight * 3,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Backend fans a completed frame out to every currently connected
// websocket client as brotli-compressed RGB bytes.
type Backend struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan joypad.Button

	held joypad.Button
}

// New returns an empty Backend. Handler is the http.HandlerFunc to mount at
// the desired path.
func New() *Backend {
	return &Backend{clients: make(map[*websocket.Conn]chan joypad.Button)}
}

// Handler upgrades incoming HTTP requests to websocket connections and
// registers them as frame subscribers.
func (b *Backend) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	inputs := make(chan joypad.Button, 4)

	b.mu.Lock()
	b.clients[conn] = inputs
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		conn.Close()
	}()

	for {
		var msg struct {
			Buttons uint8 `json:"buttons"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		inputs <- joypad.Button(msg.Buttons)
	}
}

// Present implements ppu.FrameSink: every client gets the same brotli-
// compressed RGB stream.
func (b *Backend) Present(frame *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	buf := make([]byte, 0, ppu.ScreenWidth*ppu.ScreenHeight*3)
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			rgb := display.Shade[frame[y][x]]
			buf = append(buf, rgb[0], rgb[1], rgb[2])
		}
	}

	out, err := cbrotli.Encode(buf, cbrotli.WriterOptions{Quality: compressionQuality})
	if err != nil {
		out = buf
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn, inputs := range b.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
			conn.Close()
			delete(b.clients, conn)
			continue
		}
		select {
		case btn := <-inputs:
			b.held = btn
		default:
		}
	}
}

// Poll implements display.InputSource, returning the button mask last taken
// from a client's input queue. Present takes at most one queued mask per
// client per frame, oldest first.
func (b *Backend) Poll() joypad.Button {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held
}
