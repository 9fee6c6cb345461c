// Package joypad implements the Game Boy's button matrix register, FF00.
package joypad

import (
	"github.com/tmillward/gbcore/internal/ints"
)

// Button identifies one of the eight physical buttons.
type Button uint8

const (
	Right Button = 1 << iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

const Addr uint16 = 0xFF00

// directionMask and actionMask pick out the two 4-bit rows of State.
const (
	directionMask = Right | Left | Up | Down
	actionMask    = A | B | Select | Start
)

// Joypad latches which row (direction/action) is selected and reports the
// pressed-state of that row's four buttons, active low.
type Joypad struct {
	selectDirection bool // bit 4, active low selector bit cleared
	selectAction    bool // bit 5

	state Button // 1 = pressed

	irq *ints.Controller
}

// New returns a Joypad with no buttons pressed and no row selected.
func New(irq *ints.Controller) *Joypad {
	return &Joypad{irq: irq}
}

// Read implements the FF00 bus contract: the low nibble reads the inverse
// of the pressed state of whichever row is selected.
func (j *Joypad) Read(uint16) uint8 {
	row := uint8(0x0F)
	if j.selectDirection {
		row &^= uint8(j.state) & 0x0F
	}
	if j.selectAction {
		row &^= uint8(j.state>>4) & 0x0F
	}
	v := row | 0xC0
	if !j.selectDirection {
		v |= 0x10
	}
	if !j.selectAction {
		v |= 0x20
	}
	return v
}

// Write implements the FF00 bus contract: only bits 4-5 are writable, and
// they are active low (0 selects the row).
func (j *Joypad) Write(_ uint16, v uint8) {
	j.selectDirection = v&0x10 == 0
	j.selectAction = v&0x20 == 0
}

// SetState replaces the full button matrix (1 = pressed) and raises the
// joypad interrupt for any 1->0 edge (newly pressed button) in whichever row
// is currently selected.
func (j *Joypad) SetState(pressed Button) {
	edges := (^j.state) & pressed
	if edges == 0 {
		j.state = pressed
		return
	}
	selected := Button(0)
	if j.selectDirection {
		selected |= directionMask
	}
	if j.selectAction {
		selected |= actionMask
	}
	if edges&selected != 0 {
		j.irq.Request(ints.Joypad)
	}
	j.state = pressed
}

// Press sets a single button down.
func (j *Joypad) Press(b Button) {
	j.SetState(j.state | b)
}

// Release lifts a single button.
func (j *Joypad) Release(b Button) {
	j.SetState(j.state &^ b)
}
