package bus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tmillward/gbcore/internal/cart"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 32KB
	c, err := cart.Load(rom, nil)
	require.NoError(t, err)
	return New(c, logrus.NewEntry(logrus.New()))
}

// While an OAM DMA transfer is active, CPU reads outside HRAM return 0xFF
// and writes are dropped.
func TestDMALockoutReturnsFF(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC000, 0x42) // WRAM, outside DMA yet

	b.Write(0xFF46, 0xC0) // start DMA from 0xC000
	require.True(t, b.DMA.Active())

	require.Equal(t, uint8(0xFF), b.Read(0xC000))
	b.Write(0xC000, 0x99)
	require.Equal(t, uint8(0xFF), b.Read(0xC000))

	b.Write(0xFF80, 0x77) // HRAM remains accessible during DMA
	require.Equal(t, uint8(0x77), b.Read(0xFF80))
}

// DMA completes a 160-byte OAM copy after 640 T-cycles (160 machine
// cycles).
func TestDMACompletesAfterSixHundredFortyTCycles(t *testing.T) {
	b := newTestBus(t)
	for i := uint16(0); i < 160; i++ {
		b.WriteRaw(0xC000+i, uint8(i))
	}
	b.DMA.Write(0xFF46, 0xC0)

	for i := 0; i < 159; i++ {
		b.Idle()
	}
	require.True(t, b.DMA.Active())
	b.Idle()
	require.False(t, b.DMA.Active())

	for i := uint16(0); i < 160; i++ {
		require.Equal(t, uint8(i), b.ReadRaw(0xFE00+i))
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC123, 0xAB)
	require.Equal(t, uint8(0xAB), b.Read(0xE123))
}

func TestBootROMOverlayAndUnlock(t *testing.T) {
	b := newTestBus(t)
	boot := make([]byte, 0x100)
	boot[0] = 0x11
	b.SetBootROM(boot)
	require.Equal(t, uint8(0x11), b.Read(0x0000))

	b.Write(0xFF50, 0x01)
	require.False(t, b.BootROMActive())
}
