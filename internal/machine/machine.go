// Package machine assembles the bus, CPU and cartridge into the runnable
// Game Boy model: the stepping loop, battery persistence, and a
// functional-options constructor for the top-level aggregate type.
package machine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tmillward/gbcore/internal/bus"
	"github.com/tmillward/gbcore/internal/cart"
	"github.com/tmillward/gbcore/internal/cpu"
	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/ppu"
)

// FramesPerSecond is the DMG's nominal refresh rate.
const FramesPerSecond = 4194304.0 / 70224.0

// BatteryStore persists and restores a cartridge's battery-backed RAM; the
// caller decides where that lives (file, object storage, etc).
type BatteryStore interface {
	Load(fingerprint uint64) ([]byte, error)
	Save(fingerprint uint64, data []byte) error
}

// Machine is the aggregate Game Boy: bus, CPU, and the save/pacing
// apparatus built on top of them.
type Machine struct {
	Bus *bus.Bus
	CPU *cpu.CPU
	cart *cart.Cartridge

	log *logrus.Entry

	battery      BatteryStore
	saveEvery    time.Duration
	lastSaveTime time.Time
	cyclesTicked uint64

	frameHook func()
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithLogger replaces the entry the Machine uses for its own battery
// warnings. The cartridge, bus and CPU are built before options apply and
// log through an entry on logrus's standard logger.
func WithLogger(log *logrus.Entry) Option {
	return func(m *Machine) { m.log = log }
}

// WithBootROM attaches a boot ROM image and resets the CPU to run it from
// address 0.
func WithBootROM(rom []byte) Option {
	return func(m *Machine) {
		m.Bus.SetBootROM(rom)
		m.CPU.ResetForBootROM()
	}
}

// WithBatteryStore attaches persistence for battery-backed cartridges and
// immediately loads any existing save for this ROM's fingerprint.
func WithBatteryStore(store BatteryStore) Option {
	return func(m *Machine) { m.battery = store }
}

// WithSaveEvery enables a periodic battery flush at the given interval, in
// addition to the mandatory flush on Close.
func WithSaveEvery(d time.Duration) Option {
	return func(m *Machine) { m.saveEvery = d }
}

// WithFrameSink attaches the PPU's completed-frame consumer.
func WithFrameSink(sink ppu.FrameSink) Option {
	return func(m *Machine) { m.Bus.PPU.AttachSink(sink) }
}

// New constructs a Machine around rom, applying opts in order.
func New(rom []byte, opts ...Option) (*Machine, error) {
	log := logrus.NewEntry(logrus.StandardLogger())

	c, err := cart.Load(rom, log)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	b := bus.New(c, log)
	cp := cpu.New(b, b.Ints, log)

	m := &Machine{
		Bus:  b,
		CPU:  cp,
		cart: c,
		log:  log,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.battery != nil && c.Header.Battery() {
		if data, err := m.battery.Load(c.Fingerprint()); err == nil && len(data) > 0 {
			c.LoadBattery(data)
		} else if err != nil {
			m.log.Warnf("machine: no existing battery save (%v)", err)
		}
	}

	return m, nil
}

// SetButtonState updates the joypad's full button matrix.
func (m *Machine) SetButtonState(pressed joypad.Button) {
	m.Bus.Joypad.SetState(pressed)
}

// StepInstruction advances the machine by exactly one CPU instruction (or
// one interrupt service, or one idle tick while halted).
func (m *Machine) StepInstruction() {
	m.CPU.Step()
	m.maybeAutoSave()
}

// RunFrame advances the machine until one full frame (70224 T-cycles) has
// completed, wall-clock pacing left to the caller: never skip ticks to
// catch up, only skip presenting a frame.
func (m *Machine) RunFrame() {
	target := m.Bus.Cycles() + 70224
	for m.Bus.Cycles() < target {
		m.CPU.Step()
	}
	m.maybeAutoSave()
}

func (m *Machine) maybeAutoSave() {
	if m.battery == nil || m.saveEvery == 0 || !m.cart.Header.Battery() {
		return
	}
	if m.lastSaveTime.IsZero() {
		m.lastSaveTime = time.Now()
		return
	}
	if time.Since(m.lastSaveTime) < m.saveEvery {
		return
	}
	m.lastSaveTime = time.Now()
	m.flushBattery()
}

func (m *Machine) flushBattery() {
	if m.battery == nil {
		return
	}
	data := m.cart.SaveBattery()
	if data == nil {
		return
	}
	if err := m.battery.Save(m.cart.Fingerprint(), data); err != nil {
		m.log.Warnf("machine: battery save failed: %v", err)
	}
}

// Close flushes battery-backed RAM unconditionally on shutdown.
func (m *Machine) Close() error {
	m.flushBattery()
	return nil
}

// DumpRegisters formats the CPU and PPU state for a bug report, satisfying
// diag.RegisterDumper.
func (m *Machine) DumpRegisters() string {
	c := m.CPU
	return fmt.Sprintf(
		"AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X LY=%02X IME=%v halted=%v",
		uint16(c.A)<<8|uint16(c.F), uint16(c.B)<<8|uint16(c.C), uint16(c.D)<<8|uint16(c.E),
		uint16(c.H)<<8|uint16(c.L), c.SP, c.PC, m.Bus.PPU.LY(), m.Bus.Ints.IME, c.Halted(),
	)
}
