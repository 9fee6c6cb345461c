package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmillward/gbcore/internal/ints"
)

func TestWriteSCStartsShiftAndInvokesOnTransmit(t *testing.T) {
	c := New(ints.New())
	var captured uint8
	c.OnTransmit = func(b uint8) { captured = b }

	c.Write(SBAddr, 0x41)
	c.Write(SCAddr, 0x81)

	require.Equal(t, uint8(0x41), captured)
	require.Equal(t, uint8(0xFF), c.Read(SCAddr))
}

func TestTransferCompletesAfterFourThousandNinetySixCycles(t *testing.T) {
	irq := ints.New()
	c := New(irq)
	c.Write(SBAddr, 0x00)
	c.Write(SCAddr, 0x81)

	for i := 0; i < 512*7/4; i++ {
		c.Tick(4)
	}
	require.Zero(t, irq.Flag&(1<<ints.Serial))

	for i := 0; i < 512/4; i++ {
		c.Tick(4)
	}
	require.NotZero(t, irq.Flag&(1<<ints.Serial))
	require.Zero(t, c.Read(SCAddr)&0x80)
}

func TestUnconnectedLineShiftsInOnes(t *testing.T) {
	c := New(ints.New())
	c.Write(SBAddr, 0x00)
	c.Write(SCAddr, 0x81)
	for i := 0; i < 512*8/4; i++ {
		c.Tick(4)
	}
	require.Equal(t, uint8(0xFF), c.Read(SBAddr))
}

func TestExternalClockDoesNotStartShift(t *testing.T) {
	c := New(ints.New())
	c.Write(SCAddr, 0x01) // transfer requested but external clock
	require.False(t, c.shifting)
}
