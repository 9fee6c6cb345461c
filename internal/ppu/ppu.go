// Package ppu implements the Game Boy's picture processing unit: the
// mode-based scanline pipeline (OAM scan, pixel transfer, H-blank, V-blank)
// that produces a 160x144 framebuffer of 2-bit color indices once per frame.
//
// Pixel transfer timing (the mode-3 dot budget per scanline, including the
// SCX%8 discard, the window-switch penalty and per-sprite fetch penalties)
// is approximated once per scanline by computeMode3Len; mode changes, STAT
// edges and the VRAM/OAM lockout windows then follow that budget dot by
// dot. The pixel *compositing* itself (background, window, sprite mixing)
// is resolved for the whole scanline in one pass at the end of mode 3
// rather than shifted out of a literal per-dot FIFO object, so a register
// write made part-way through mode 3 applies to the whole line.
package ppu

import (
	"github.com/sirupsen/logrus"
	"github.com/tmillward/gbcore/internal/ints"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	DotsPerLine  = 456
	LinesPerFrame = 154
)

// Mode is one of the four PPU scanline modes.
type Mode uint8

const (
	HBlank   Mode = 0
	VBlank   Mode = 1
	OAMScan  Mode = 2
	PixelXfer Mode = 3
)

const (
	LCDCAddr uint16 = 0xFF40
	STATAddr uint16 = 0xFF41
	SCYAddr  uint16 = 0xFF42
	SCXAddr  uint16 = 0xFF43
	LYAddr   uint16 = 0xFF44
	LYCAddr  uint16 = 0xFF45
	BGPAddr  uint16 = 0xFF47
	OBP0Addr uint16 = 0xFF48
	OBP1Addr uint16 = 0xFF49
	WYAddr   uint16 = 0xFF4A
	WXAddr   uint16 = 0xFF4B
)

// LCDC bits.
const (
	lcdcBGWindowEnable = 1 << 0
	lcdcObjEnable      = 1 << 1
	lcdcObjSize        = 1 << 2
	lcdcBGTileMap      = 1 << 3
	lcdcBGWindowTiles  = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowTileMap  = 1 << 6
	lcdcEnable         = 1 << 7
)

// sprite is one 4-byte OAM entry.
type sprite struct {
	y, x, tile, attr uint8
	oamIndex         int
}

func (s sprite) xFlip() bool    { return s.attr&0x20 != 0 }
func (s sprite) yFlip() bool    { return s.attr&0x40 != 0 }
func (s sprite) bgPriority() bool { return s.attr&0x80 != 0 }
func (s sprite) palette1() bool  { return s.attr&0x10 != 0 }

// FrameSink receives a completed frame of color indices 0-3 once per
// V-blank.
type FrameSink interface {
	Present(frame *[ScreenHeight][ScreenWidth]uint8)
}

// PPU implements the mode-based scanline pipeline.
type PPU struct {
	vram [0x2000]uint8
	oam  [160]uint8

	lcdc, stat, scy, scx, ly, lyc uint8
	bgp, obp0, obp1               uint8
	wy, wx                        uint8

	dot uint16

	mode        Mode
	mode3Len    uint16
	statLine    bool // previous combined STAT-interrupt condition, for edge detection
	windowLine  uint8
	windowSeen  bool // WY matched LY at some point this frame

	selected    []sprite // up to 10, OAM order, for the current line

	front, back [ScreenHeight][ScreenWidth]uint8

	irq  *ints.Controller
	sink FrameSink
	log  *logrus.Entry

	oamDMAHook func() bool // reports whether the bus's DMA engine is mid-transfer
}

// New returns a PPU in its post-boot-ROM state (LCD on, BG map at 9800,
// BG/window tiles at 8000, OBJ 8x8).
func New(irq *ints.Controller, log *logrus.Entry) *PPU {
	return &PPU{
		lcdc: 0x91,
		bgp:  0xFC,
		irq:  irq,
		log:  log,
	}
}

// AttachSink sets the frame sink that receives completed frames.
func (p *PPU) AttachSink(s FrameSink) { p.sink = s }

func (p *PPU) enabled() bool { return p.lcdc&lcdcEnable != 0 }

// Mode returns the PPU's current scanline mode, used by the bus to enforce
// VRAM/OAM lockout.
func (p *PPU) Mode() Mode { return p.mode }

// LY returns the current scanline, for diagnostics and tests.
func (p *PPU) LY() uint8 { return p.ly }

// ReadVRAM/WriteVRAM/ReadOAM/WriteOAM are unconditional raw accessors; the
// bus is responsible for the mode-based lockout.
func (p *PPU) ReadVRAM(addr uint16) uint8    { return p.vram[addr&0x1FFF] }
func (p *PPU) WriteVRAM(addr uint16, v uint8) { p.vram[addr&0x1FFF] = v }
func (p *PPU) ReadOAM(addr uint16) uint8     { return p.oam[addr&0xFF] }
func (p *PPU) WriteOAM(addr uint16, v uint8) { p.oam[addr&0xFF] = v }

// Read implements the LCDC/STAT/.../WX bus contract.
func (p *PPU) Read(addr uint16) uint8 {
	switch addr {
	case LCDCAddr:
		return p.lcdc
	case STATAddr:
		return p.stat&0x78 | uint8(p.mode) | 0x80 | p.lycBit()
	case SCYAddr:
		return p.scy
	case SCXAddr:
		return p.scx
	case LYAddr:
		return p.ly
	case LYCAddr:
		return p.lyc
	case BGPAddr:
		return p.bgp
	case OBP0Addr:
		return p.obp0
	case OBP1Addr:
		return p.obp1
	case WYAddr:
		return p.wy
	case WXAddr:
		return p.wx
	}
	return 0xFF
}

func (p *PPU) lycBit() uint8 {
	if p.ly == p.lyc {
		return 0x04
	}
	return 0
}

// Write implements the LCDC/STAT/.../WX bus contract.
func (p *PPU) Write(addr uint16, v uint8) {
	switch addr {
	case LCDCAddr:
		wasEnabled := p.enabled()
		p.lcdc = v
		if wasEnabled && !p.enabled() {
			p.disableLCD()
		} else if !wasEnabled && p.enabled() {
			p.dot = 0
			p.ly = 0
			p.mode = OAMScan
			p.windowLine = 0
			p.windowSeen = false
		}
	case STATAddr:
		p.stat = v & 0x78
		p.checkStatInterrupt()
	case SCYAddr:
		p.scy = v
	case SCXAddr:
		p.scx = v
	case LYAddr:
		// read-only
	case LYCAddr:
		p.lyc = v
		p.checkStatInterrupt()
	case BGPAddr:
		p.bgp = v
	case OBP0Addr:
		p.obp0 = v
	case OBP1Addr:
		p.obp1 = v
	case WYAddr:
		p.wy = v
	case WXAddr:
		p.wx = v
	}
}

func (p *PPU) disableLCD() {
	p.dot = 0
	p.ly = 0
	p.mode = HBlank
	p.front = [ScreenHeight][ScreenWidth]uint8{}
	p.back = [ScreenHeight][ScreenWidth]uint8{}
}

// Tick advances the pipeline by n T-cycles.
func (p *PPU) Tick(n uint8) {
	if !p.enabled() {
		return
	}
	for i := uint8(0); i < n; i++ {
		p.tickT()
	}
}

func (p *PPU) tickT() {
	p.dot++
	switch p.mode {
	case OAMScan:
		if p.dot == 80 {
			p.scanOAM()
			p.enterMode(PixelXfer)
		}
	case PixelXfer:
		if p.dot == 80+p.mode3Len {
			p.renderScanline()
			p.enterMode(HBlank)
		}
	case HBlank, VBlank:
		if p.dot == DotsPerLine {
			p.advanceLine()
		}
	}
}

func (p *PPU) advanceLine() {
	p.dot = 0
	p.ly++
	if p.ly == ScreenHeight {
		p.enterMode(VBlank)
		p.irq.Request(ints.VBlank)
		p.front, p.back = p.back, p.front
		if p.sink != nil {
			p.sink.Present(&p.front)
		}
		return
	}
	if p.ly >= LinesPerFrame {
		p.ly = 0
		p.windowLine = 0
		p.windowSeen = false
	}
	if p.ly < ScreenHeight {
		p.enterMode(OAMScan)
	}
	// lines 144-153 (vblank) simply keep ticking dots in VBlank mode
	if p.ly >= ScreenHeight {
		p.mode = VBlank
		p.statLine = p.checkStatInterrupt()
	}
}

func (p *PPU) enterMode(m Mode) {
	p.mode = m
	if p.ly == p.wy {
		p.windowSeen = true
	}
	p.checkStatInterrupt()
}

// checkStatInterrupt recomputes the combined STAT interrupt condition and
// requests the LCD interrupt on a 0->1 edge.
func (p *PPU) checkStatInterrupt() bool {
	cond := false
	if p.lyc == p.ly && p.stat&0x40 != 0 {
		cond = true
	}
	switch p.mode {
	case HBlank:
		cond = cond || p.stat&0x08 != 0
	case VBlank:
		cond = cond || p.stat&0x10 != 0
	case OAMScan:
		cond = cond || p.stat&0x20 != 0
	}
	if cond && !p.statLine {
		p.irq.Request(ints.LCDStat)
	}
	p.statLine = cond
	return cond
}

// scanOAM walks all 40 sprites and selects up to 10 whose Y range includes
// the current line, preserving OAM order.
func (p *PPU) scanOAM() {
	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}
	p.selected = p.selected[:0]
	for i := 0; i < 40 && len(p.selected) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		top := int(y) - 16
		if int(p.ly) >= top && int(p.ly) < top+int(height) {
			p.selected = append(p.selected, sprite{
				y: y, x: p.oam[base+1], tile: p.oam[base+2], attr: p.oam[base+3], oamIndex: i,
			})
		}
	}
	p.mode3Len = p.computeMode3Len(height)
}

// computeMode3Len approximates the mode-3 dot budget: a 172-dot base, plus
// the SCX%8 discard, a window-switch penalty, and a per-sprite fetch
// penalty - the dominant, externally-observable timing effects software
// polls for (exact sub-dot sprite/window interleaving is not modeled, see
// DESIGN.md).
func (p *PPU) computeMode3Len(_ uint8) uint16 {
	length := uint16(172)
	length += uint16(p.scx % 8)
	if p.lcdc&lcdcWindowEnable != 0 && p.windowSeen {
		length += 6
	}
	for range p.selected {
		length += 8
	}
	if length > 289 {
		length = 289
	}
	return length
}
