package apu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaveRAMReadWrite(t *testing.T) {
	a := New()
	a.Write(waveRAMLo+3, 0x5A)
	require.Equal(t, uint8(0x5A), a.Read(waveRAMLo+3))
}

func TestChannelRegistersIgnoredWhilePoweredOff(t *testing.T) {
	a := New()
	a.Write(NR10, 0x7F)
	require.Equal(t, uint8(0), a.Read(NR10))
}

func TestPoweringOnAllowsChannelWrites(t *testing.T) {
	a := New()
	a.Write(NR52, 0x80)
	a.Write(NR10, 0x7F)
	require.Equal(t, uint8(0x7F), a.Read(NR10))
}

func TestPoweringOffClearsRegisters(t *testing.T) {
	a := New()
	a.Write(NR52, 0x80)
	a.Write(NR10, 0x7F)
	a.Write(NR52, 0x00)
	require.Equal(t, uint8(0), a.Read(NR10))
}

func TestNR52ReadReportsPowerBitWithReservedOnes(t *testing.T) {
	a := New()
	a.Write(NR52, 0x80)
	require.Equal(t, uint8(0xF0), a.Read(NR52))
}

func TestFrameSequencerAdvancesOnlyWhenEnabled(t *testing.T) {
	a := New()
	for i := 0; i < frameSequencerPeriod*3/4; i++ {
		a.Tick(4)
	}
	require.Equal(t, uint8(0), a.seqStep)

	a.Write(NR52, 0x80)
	for i := 0; i < frameSequencerPeriod*3/4; i++ {
		a.Tick(4)
	}
	require.Equal(t, uint8(3), a.seqStep)
}
