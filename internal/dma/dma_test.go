package dma

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mem [0x10000]uint8
}

func (f *fakeBus) ReadRaw(addr uint16) uint8     { return f.mem[addr] }
func (f *fakeBus) WriteRaw(addr uint16, v uint8) { f.mem[addr] = v }

func TestWriteStartsTransfer(t *testing.T) {
	b := &fakeBus{}
	d := New(b)
	d.Write(Addr, 0xC0)
	require.True(t, d.Active())
	require.Equal(t, uint8(0xC0), d.Read(Addr))
}

func TestTransferCopiesOneBytePerFourCycles(t *testing.T) {
	b := &fakeBus{}
	for i := uint16(0); i < 160; i++ {
		b.mem[0xC000+i] = uint8(i)
	}
	d := New(b)
	d.Write(Addr, 0xC0)

	for i := 0; i < 159; i++ {
		d.Tick(4)
	}
	require.True(t, d.Active())
	d.Tick(4)
	require.False(t, d.Active())

	for i := uint16(0); i < 160; i++ {
		require.Equal(t, uint8(i), b.mem[0xFE00+i])
	}
}

func TestRestartMidTransferRebasesSource(t *testing.T) {
	b := &fakeBus{}
	for i := uint16(0); i < 160; i++ {
		b.mem[0xC000+i] = 0x11
		b.mem[0xD000+i] = 0x22
	}
	d := New(b)
	d.Write(Addr, 0xC0)
	d.Tick(40) // partway through

	d.Write(Addr, 0xD0)
	for i := 0; i < 160; i++ {
		d.Tick(4)
	}
	require.False(t, d.Active())
	require.Equal(t, uint8(0x22), b.mem[0xFE00])
}

func TestTickIsNoopWhenInactive(t *testing.T) {
	b := &fakeBus{}
	d := New(b)
	d.Tick(100)
	require.False(t, d.Active())
}
