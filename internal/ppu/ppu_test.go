package ppu

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tmillward/gbcore/internal/ints"
)

func newTestPPU() *PPU {
	return New(ints.New(), logrus.NewEntry(logrus.New()))
}

// A full frame is exactly 70224 T-cycles (154 lines * 456 dots).
func TestFrameIsSeventyThousandTwoHundredTwentyFourCycles(t *testing.T) {
	p := newTestPPU()
	vblanks := 0
	cycles := 0
	for vblanks < 2 {
		before := p.mode
		p.Tick(1)
		cycles++
		if before != VBlank && p.mode == VBlank {
			vblanks++
			if vblanks == 1 {
				cycles = 0
			}
		}
	}
	require.Equal(t, 70224, cycles)
}

// At most 10 sprites are selected per line, in OAM order.
func TestOAMScanSelectsAtMostTenInOAMOrder(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 40; i++ {
		base := i * 4
		p.oam[base] = 16 // on-screen at LY=0, 8px sprite
		p.oam[base+1] = uint8(i)
		p.oam[base+2] = uint8(i)
		p.oam[base+3] = 0
	}
	p.ly = 0
	p.scanOAM()

	require.Len(t, p.selected, 10)
	for i, s := range p.selected {
		require.Equal(t, i, s.oamIndex)
	}
}

func TestPaletteMapping(t *testing.T) {
	require.Equal(t, uint8(3), applyPalette(0xE4, 3))
	require.Equal(t, uint8(0), applyPalette(0xE4, 0))
}

func TestLCDDisableResetsLine(t *testing.T) {
	p := newTestPPU()
	p.ly = 77
	p.Write(LCDCAddr, 0x00)
	require.Equal(t, uint8(0), p.LY())
	require.Equal(t, HBlank, p.Mode())
}
