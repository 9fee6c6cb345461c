// Package ints implements the Game Boy's interrupt controller: the IE/IF
// register pair and the priority-ordered vector table that the CPU consults
// at each instruction boundary.
package ints

// Flag identifies one of the five interrupt sources, ordered by priority
// (VBlank is highest).
type Flag = uint8

const (
	VBlank Flag = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector is the service-routine address for each interrupt source.
var Vector = [5]uint16{
	VBlank:  0x0040,
	LCDStat: 0x0048,
	Timer:   0x0050,
	Serial:  0x0058,
	Joypad:  0x0060,
}

const (
	FlagAddr   uint16 = 0xFF0F
	EnableAddr uint16 = 0xFFFF
)

// Controller holds the IE and IF registers and the master interrupt enable.
type Controller struct {
	Enable uint8 // FFFF
	Flag   uint8 // FF0F

	IME bool
}

// New returns a Controller in its post-boot state.
func New() *Controller {
	return &Controller{Flag: 0xE1}
}

// Request latches the given interrupt source in IF.
func (c *Controller) Request(f Flag) {
	c.Flag |= 1 << f
}

// Clear clears the given interrupt source in IF.
func (c *Controller) Clear(f Flag) {
	c.Flag &^= 1 << f
}

// Pending reports whether any enabled interrupt source is currently latched.
func (c *Controller) Pending() bool {
	return c.Enable&c.Flag&0x1F != 0
}

// Next returns the highest-priority pending, enabled interrupt and true, or
// zero and false if none is pending.
func (c *Controller) Next() (Flag, bool) {
	pending := c.Enable & c.Flag & 0x1F
	if pending == 0 {
		return 0, false
	}
	for f := Flag(0); f < 5; f++ {
		if pending&(1<<f) != 0 {
			return f, true
		}
	}
	return 0, false
}

// Read implements the FF0F/FFFF bus contract. The upper three bits of IF
// always read back as 1.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case FlagAddr:
		return c.Flag&0x1F | 0xE0
	case EnableAddr:
		return c.Enable
	}
	return 0xFF
}

// Write implements the FF0F/FFFF bus contract.
func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case FlagAddr:
		c.Flag = v
	case EnableAddr:
		c.Enable = v
	}
}
