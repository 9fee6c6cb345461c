// Package bus implements the Game Boy's 16-bit memory-mapped address space:
// the single Read/Write/Idle entry point every other component (CPU, DMA)
// goes through, each call costing exactly 4 T-cycles and ticking every
// peripheral by that amount before returning.
//
// The bus itself is the single clock source, rather than a cycle-sorted
// event scheduler or a CPU-driven tick() fan-out: every access costs 4
// T-cycles and advances the whole machine by that amount, with no second
// moving part tracking cycles on the side.
package bus

import (
	"github.com/sirupsen/logrus"
	"github.com/tmillward/gbcore/internal/apu"
	"github.com/tmillward/gbcore/internal/cart"
	"github.com/tmillward/gbcore/internal/dma"
	"github.com/tmillward/gbcore/internal/ints"
	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/internal/serial"
	"github.com/tmillward/gbcore/internal/timer"
)

// Bus owns every memory-mapped peripheral and the WRAM/HRAM arrays.
type Bus struct {
	cart *cart.Cartridge

	wram [0x2000]uint8
	hram [0x7F]uint8

	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.Controller
	APU    *apu.APU
	DMA    *dma.DMA
	Ints   *ints.Controller

	bootROM        []byte
	bootROMEnabled bool

	cycles uint64

	log *logrus.Entry
}

// New wires a fresh Bus around the given cartridge. Peripherals are
// constructed here so the Bus owns their lifetime; callers that need direct
// access (e.g. the machine package attaching a FrameSink) use the exported
// fields.
func New(c *cart.Cartridge, log *logrus.Entry) *Bus {
	irq := ints.New()
	b := &Bus{
		cart:   c,
		Ints:   irq,
		PPU:    ppu.New(irq, log),
		Timer:  timer.New(irq, log),
		Joypad: joypad.New(irq),
		Serial: serial.New(irq),
		APU:    apu.New(),
		log:    log,
	}
	b.DMA = dma.New(b)
	return b
}

// SetBootROM attaches a 256-byte boot ROM image, overlaid at 0x0000-0x00FF
// until the guest writes to FF50.
func (b *Bus) SetBootROM(rom []byte) {
	b.bootROM = rom
	b.bootROMEnabled = len(rom) > 0
}

// BootROMActive reports whether the boot ROM overlay is still mapped.
func (b *Bus) BootROMActive() bool { return b.bootROMEnabled }

// Cycles returns the total T-cycles the bus has advanced.
func (b *Bus) Cycles() uint64 { return b.cycles }

// Read implements the cpu.Bus contract.
func (b *Bus) Read(addr uint16) uint8 {
	b.tick4()
	return b.lockedRead(addr)
}

// Write implements the cpu.Bus contract.
func (b *Bus) Write(addr uint16, v uint8) {
	b.tick4()
	b.lockedWrite(addr, v)
}

// Idle implements the cpu.Bus contract: advance time with no memory access.
func (b *Bus) Idle() {
	b.tick4()
}

func (b *Bus) tick4() {
	b.cycles += 4
	b.PPU.Tick(4)
	b.Timer.Tick(4)
	b.Serial.Tick(4)
	b.APU.Tick(4)
	b.DMA.Tick(4)
	b.cart.Tick(4)
}

// lockedRead applies the DMA and PPU-mode lockout windows on top of the raw
// address decode.
func (b *Bus) lockedRead(addr uint16) uint8 {
	if b.DMA.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return 0xFF
	}
	if addr >= 0x8000 && addr <= 0x9FFF && b.PPU.Mode() == ppu.PixelXfer {
		return 0xFF
	}
	if addr >= 0xFE00 && addr <= 0xFE9F && (b.PPU.Mode() == ppu.OAMScan || b.PPU.Mode() == ppu.PixelXfer) {
		return 0xFF
	}
	return b.rawRead(addr)
}

func (b *Bus) lockedWrite(addr uint16, v uint8) {
	if b.DMA.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return
	}
	if addr >= 0x8000 && addr <= 0x9FFF && b.PPU.Mode() == ppu.PixelXfer {
		return
	}
	if addr >= 0xFE00 && addr <= 0xFE9F && (b.PPU.Mode() == ppu.OAMScan || b.PPU.Mode() == ppu.PixelXfer) {
		return
	}
	b.rawWrite(addr, v)
}

// ReadRaw and WriteRaw implement dma.Bus: the address decode with no
// lockout, for the DMA engine's own byte copy.
func (b *Bus) ReadRaw(addr uint16) uint8      { return b.rawRead(addr) }
func (b *Bus) WriteRaw(addr uint16, v uint8) { b.rawWrite(addr, v) }

func (b *Bus) rawRead(addr uint16) uint8 {
	switch {
	case addr < 0x100 && b.bootROMEnabled:
		return b.bootROM[addr]
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr < 0xA000:
		return b.PPU.ReadVRAM(addr)
	case addr < 0xC000:
		return b.cart.Read(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[(addr-0xE000)%0x2000]
	case addr < 0xFEA0:
		return b.PPU.ReadOAM(addr)
	case addr < 0xFF00:
		return 0xFF
	case addr == dma.Addr:
		return b.DMA.Read(addr)
	case addr == joypad.Addr:
		return b.Joypad.Read(addr)
	case addr == serial.SBAddr, addr == serial.SCAddr:
		return b.Serial.Read(addr)
	case addr >= timer.DIVAddr && addr <= timer.TACAddr:
		return b.Timer.Read(addr)
	case addr == ints.FlagAddr:
		return b.Ints.Read(addr)
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		return b.APU.Read(addr)
	case addr >= ppu.LCDCAddr && addr <= ppu.WXAddr:
		return b.PPU.Read(addr)
	case addr == 0xFF50:
		return 0xFF
	case addr < 0xFF80:
		return 0xFF
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	case addr == ints.EnableAddr:
		return b.Ints.Read(addr)
	}
	return 0xFF
}

func (b *Bus) rawWrite(addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, v)
	case addr < 0xA000:
		b.PPU.WriteVRAM(addr, v)
	case addr < 0xC000:
		b.cart.Write(addr, v)
	case addr < 0xE000:
		b.wram[addr-0xC000] = v
	case addr < 0xFE00:
		b.wram[(addr-0xE000)%0x2000] = v
	case addr < 0xFEA0:
		b.PPU.WriteOAM(addr, v)
	case addr < 0xFF00:
		// prohibited region, writes ignored
	case addr == dma.Addr:
		b.DMA.Write(addr, v)
	case addr == joypad.Addr:
		b.Joypad.Write(addr, v)
	case addr == serial.SBAddr, addr == serial.SCAddr:
		b.Serial.Write(addr, v)
	case addr >= timer.DIVAddr && addr <= timer.TACAddr:
		b.Timer.Write(addr, v)
	case addr == ints.FlagAddr:
		b.Ints.Write(addr, v)
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		b.APU.Write(addr, v)
	case addr >= ppu.LCDCAddr && addr <= ppu.WXAddr:
		b.PPU.Write(addr, v)
	case addr == 0xFF50:
		if v != 0 {
			b.bootROMEnabled = false
		}
	case addr < 0xFF80:
		// unused I/O, writes ignored
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	case addr == ints.EnableAddr:
		b.Ints.Write(addr, v)
	}
}
