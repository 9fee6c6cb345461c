// Package cpu implements the Sharp SM83 instruction interpreter: the
// register file, the 256-entry main and CB-prefixed dispatch tables, and
// interrupt/HALT/STOP handling.
package cpu

import (
	"github.com/sirupsen/logrus"
	"github.com/tmillward/gbcore/internal/ints"
)

// Bus is the memory-mapped interface the CPU drives. Every Read/Write/Idle
// call costs exactly 4 T-cycles and is expected to have already advanced
// every other peripheral by that amount before returning.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
	Idle()
}

// undefinedOpcodes permanently lock up the CPU when fetched.
var undefinedOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// divAddr is the bus address of the DIV register, reset on STOP entry.
const divAddr uint16 = 0xFF04

// CPU holds the SM83 register file and execution state.
type CPU struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16

	bus Bus
	irq *ints.Controller
	log *logrus.Entry

	halted   bool
	haltBug  bool
	stopped  bool
	lockedUp bool

	eiDelay uint8 // counts down to 0, at which point IME is enabled
}

// New returns a CPU wired to bus and irq, in its post-boot-ROM register
// state (DMG, no boot ROM mapped).
func New(bus Bus, irq *ints.Controller, log *logrus.Entry) *CPU {
	c := &CPU{bus: bus, irq: irq, log: log}
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	return c
}

// ResetForBootROM places the CPU at address 0 with zeroed registers, for
// use when a boot ROM image is attached.
func (c *CPU) ResetForBootROM() {
	c.A, c.F = 0, 0
	c.B, c.C = 0, 0
	c.D, c.E = 0, 0
	c.H, c.L = 0, 0
	c.SP = 0
	c.PC = 0
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or services one interrupt, or
// spends one idle tick while halted/locked up). Its return value is a
// nominal cycle count for diagnostics only - the authoritative timing is
// the sum of bus ticks driven by the Read/Write/Idle calls the instruction
// actually made.
func (c *CPU) Step() int {
	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.irq.IME = true
		}
	}

	if c.lockedUp {
		c.bus.Idle()
		return 4
	}

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			c.bus.Idle()
			return 4
		}
	}

	if c.stopped {
		if c.joypadPending() {
			c.stopped = false
		} else {
			c.bus.Idle()
			return 4
		}
	}

	if c.irq.IME && c.irq.Pending() {
		return c.serviceInterrupt()
	}

	op := c.fetch8()
	if c.haltBug {
		c.haltBug = false
		c.PC--
	}
	if undefinedOpcodes[op] {
		c.lockedUp = true
		if c.log != nil {
			c.log.Warnf("cpu: undefined opcode 0x%02X at 0x%04X, CPU locked up", op, c.PC-1)
		}
		return 4
	}
	mainTable[op](c)
	return 4
}

// serviceInterrupt pushes PC and jumps to the highest-priority pending
// vector: 2 idle M-cycles, a push (2 cycles), and a final idle cycle, for
// 20 T-cycles total.
func (c *CPU) serviceInterrupt() int {
	f, ok := c.irq.Next()
	if !ok {
		return 4
	}
	c.irq.IME = false
	c.irq.Clear(f)

	c.bus.Idle()
	c.bus.Idle()
	c.push16(c.PC)
	c.bus.Idle()
	c.PC = ints.Vector[f]
	return 20
}

// halt implements the HALT instruction, including the documented bug where
// IME is clear and an interrupt is already pending: the byte after HALT is
// fetched twice.
func (c *CPU) halt() {
	if !c.irq.IME && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

// stop is modeled pragmatically as HALT with DIV reset until the next
// joypad edge: public docs leave STOP's exact wake conditions
// under-specified, so this resets DIV on entry and wakes only on the
// joypad interrupt source, not any pending interrupt.
func (c *CPU) stop() {
	c.stopped = true
	c.bus.Write(divAddr, 0)
}

// joypadPending reports whether the joypad interrupt specifically is both
// enabled and latched, the only source that wakes STOP.
func (c *CPU) joypadPending() bool {
	return c.irq.Enable&c.irq.Flag&(1<<ints.Joypad) != 0
}

func (c *CPU) ei() { c.eiDelay = 2 }
func (c *CPU) di() { c.irq.IME = false; c.eiDelay = 0 }

// Halted reports whether the CPU is currently in HALT or STOP.
func (c *CPU) Halted() bool { return c.halted || c.stopped }

// LockedUp reports whether the CPU hit an undefined opcode and is frozen.
func (c *CPU) LockedUp() bool { return c.lockedUp }
