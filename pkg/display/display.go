// Package display defines the host-facing interfaces a backend implements
// to present frames, play audio and report input. The concrete backends
// in this package's subdirectories are
// informative glue around the machine core; the core itself never depends
// on any of them.
package display

import "github.com/tmillward/gbcore/internal/joypad"

// Shade maps a 2-bit DMG color index to an RGB triple. Shade is the
// classic green-tinted DMG palette; backends are free to substitute their
// own.
var Shade = [4][3]uint8{
	{0x9B, 0xBC, 0x0F},
	{0x8B, 0xAC, 0x0F},
	{0x30, 0x62, 0x30},
	{0x0F, 0x38, 0x0F},
}

// AudioSink receives generated audio samples. Channel synthesis itself is
// out of scope for the core; this exists so a backend has
// somewhere to plug in its own synthesis later.
type AudioSink interface {
	QueueSamples(left, right []float32)
}

// InputSource is polled once per frame by the host loop and translated into
// joypad.Button presses.
type InputSource interface {
	Poll() joypad.Button
}
