// Package serial implements the Game Boy's serial port registers, SB/SC.
// Link-cable peering to another emulator instance is a non-goal, so the
// shift partner is always an unconnected line (it reads back as released);
// transfers still run to completion and raise the serial interrupt, which is
// what the blargg test ROMs rely on to report their pass/fail string.
package serial

import "github.com/tmillward/gbcore/internal/ints"

const (
	SBAddr uint16 = 0xFF01
	SCAddr uint16 = 0xFF02
)

// internalClockCycles is the number of T-cycles a single-bit shift takes at
// the DMG's internal clock (8192 Hz => 512 T-cycles/bit).
const internalClockCycles = 512

// Controller implements the SB/SC bus contract and the bit-shift state
// machine for an internal-clock transfer.
type Controller struct {
	data    uint8
	control uint8

	shifting bool
	bitsLeft uint8
	counter  uint16

	irq *ints.Controller

	// OnTransmit, if set, is invoked with the byte written to SB at the
	// moment a transfer starts (i.e. the byte the guest intended to send).
	// Test harnesses (e.g. blargg's cpu_instrs, which write their result
	// string one byte at a time to SB/SC) use this to capture output
	// without waiting out the full 512-cycle shift.
	OnTransmit func(b uint8)
}

// New returns a Controller wired to the given interrupt controller.
func New(irq *ints.Controller) *Controller {
	return &Controller{control: 0x7E, irq: irq}
}

// Read implements the SB/SC bus contract.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case SBAddr:
		return c.data
	case SCAddr:
		return c.control | 0x7E
	}
	return 0xFF
}

// Write implements the SB/SC bus contract. Writing SC with bit 7 and bit 0
// set (internal clock, transfer requested) starts an 8-bit shift.
func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case SBAddr:
		c.data = v
	case SCAddr:
		c.control = v | 0x7E
		if v&0x81 == 0x81 {
			c.shifting = true
			c.bitsLeft = 8
			c.counter = 0
			if c.OnTransmit != nil {
				c.OnTransmit(c.data)
			}
		}
	}
}

// Tick advances the shift state machine by n T-cycles.
func (c *Controller) Tick(n uint8) {
	if !c.shifting {
		return
	}
	c.counter += uint16(n)
	for c.counter >= internalClockCycles && c.shifting {
		c.counter -= internalClockCycles
		c.shiftBit()
	}
}

func (c *Controller) shiftBit() {
	// no remote partner: incoming bit is always 1 (released line)
	c.data = c.data<<1 | 1
	c.bitsLeft--
	if c.bitsLeft == 0 {
		c.shifting = false
		c.control &^= 0x80
		c.irq.Request(ints.Serial)
	}
}
