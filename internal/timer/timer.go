// Package timer implements the Game Boy's DIV/TIMA/TMA/TAC timer apparatus.
package timer

import (
	"github.com/sirupsen/logrus"
	"github.com/tmillward/gbcore/internal/ints"
)

const (
	DIVAddr  uint16 = 0xFF04
	TIMAAddr uint16 = 0xFF05
	TMAAddr  uint16 = 0xFF06
	TACAddr  uint16 = 0xFF07
)

// selectBit is the bit of the 16-bit system counter that TIMA increments on
// the falling edge of, indexed by TAC's low two bits: {4096, 262144, 65536,
// 16384} Hz.
var selectBit = [4]uint8{9, 3, 5, 7}

// Timer drives TIMA from the internal 16-bit system counter and raises the
// timer interrupt on overflow.
type Timer struct {
	sysCounter uint16
	tima       uint8
	tma        uint8
	tac        uint8

	// reloadCountdown counts the 4 T-cycles TIMA spends at 0x00 after an
	// overflow before TMA is latched in and the interrupt is raised. -1
	// means no reload in flight.
	reloadCountdown int8

	irq *ints.Controller
	log *logrus.Entry
}

// New returns a Timer wired to the given interrupt controller.
func New(irq *ints.Controller, log *logrus.Entry) *Timer {
	return &Timer{
		sysCounter:      0xABCC,
		irq:             irq,
		log:             log,
		reloadCountdown: -1,
	}
}

func (t *Timer) enabled() bool { return t.tac&0x04 != 0 }

func (t *Timer) bitSet() bool {
	return t.sysCounter&(1<<selectBit[t.tac&0x03]) != 0
}

// Tick advances the system counter by n T-cycles, incrementing TIMA on each
// falling edge of the TAC-selected bit while the timer is enabled, and
// driving the overflow/reload state machine.
func (t *Timer) Tick(n uint8) {
	for i := uint8(0); i < n; i++ {
		t.tickOne()
	}
}

func (t *Timer) tickOne() {
	if t.reloadCountdown >= 0 {
		t.reloadCountdown--
		if t.reloadCountdown == 0 {
			t.tima = t.tma
			t.irq.Request(ints.Timer)
			t.reloadCountdown = -1
		}
	}

	before := t.enabled() && t.bitSet()
	t.sysCounter++
	after := t.enabled() && t.bitSet()

	if before && !after {
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		// TIMA reads 0x00 for 4 T-cycles before TMA is latched in.
		t.reloadCountdown = 4
	}
}

// Read implements the DIV/TIMA/TMA/TAC bus contract.
func (t *Timer) Read(addr uint16) uint8 {
	switch addr {
	case DIVAddr:
		return uint8(t.sysCounter >> 8)
	case TIMAAddr:
		return t.tima
	case TMAAddr:
		return t.tma
	case TACAddr:
		return t.tac | 0xF8
	}
	return 0xFF
}

// Write implements the DIV/TIMA/TMA/TAC bus contract. Writing any value to
// DIV resets the full 16-bit system counter. A write to TIMA while a reload
// is pending cancels that reload.
func (t *Timer) Write(addr uint16, v uint8) {
	switch addr {
	case DIVAddr:
		before := t.enabled() && t.bitSet()
		t.sysCounter = 0
		if before {
			t.incrementTIMA()
		}
	case TIMAAddr:
		if t.reloadCountdown > 0 {
			t.reloadCountdown = -1
		}
		t.tima = v
	case TMAAddr:
		t.tma = v
	case TACAddr:
		before := t.enabled() && t.bitSet()
		t.tac = v & 0x07
		after := t.enabled() && t.bitSet()
		if before && !after {
			t.incrementTIMA()
		}
	}
}
