package joypad

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmillward/gbcore/internal/ints"
)

func TestReadReflectsSelectedRow(t *testing.T) {
	j := New(ints.New())
	j.SetState(Right | A)

	j.Write(Addr, 0xEF) // select direction row (bit 4 = 0)
	require.Equal(t, uint8(0xEE), j.Read(Addr))

	j.Write(Addr, 0xDF) // select action row (bit 5 = 0)
	require.Equal(t, uint8(0xDE), j.Read(Addr))
}

func TestReadWithNoRowSelectedReturnsAllOnes(t *testing.T) {
	j := New(ints.New())
	j.SetState(Right | A)
	j.Write(Addr, 0xFF)
	require.Equal(t, uint8(0xFF), j.Read(Addr))
}

func TestSetStateRequestsInterruptOnNewlyPressedSelectedButton(t *testing.T) {
	irq := ints.New()
	j := New(irq)
	j.Write(Addr, 0xEF) // direction row selected

	j.SetState(Up)
	require.NotZero(t, irq.Flag&(1<<ints.Joypad))
}

func TestSetStateNoInterruptForUnselectedRow(t *testing.T) {
	irq := ints.New()
	j := New(irq)
	j.Write(Addr, 0xEF) // direction row selected

	j.SetState(A) // action button, action row not selected
	require.Zero(t, irq.Flag&(1<<ints.Joypad))
}

func TestPressAndRelease(t *testing.T) {
	j := New(ints.New())
	j.Press(Start)
	require.Equal(t, Start, j.state)
	j.Release(Start)
	require.Equal(t, Button(0), j.state)
}
