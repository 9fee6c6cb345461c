package timer

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tmillward/gbcore/internal/ints"
)

func newTestTimer() *Timer {
	return New(ints.New(), logrus.NewEntry(logrus.New()))
}

func TestDIVResetsSystemCounter(t *testing.T) {
	tm := newTestTimer()
	tm.Tick(100)
	tm.Write(DIVAddr, 0x00)
	require.Equal(t, uint8(0), tm.Read(DIVAddr))
}

func TestTIMAIncrementsAtSelectedFrequency(t *testing.T) {
	tm := newTestTimer()
	tm.Write(TACAddr, 0x05) // enabled, select bit 3 (262144 Hz -> every 16 T-cycles)
	tm.sysCounter = 0

	tm.Tick(16)
	require.Equal(t, uint8(1), tm.tima)
}

func TestTIMAOverflowReloadsFromTMAAfterFourCycles(t *testing.T) {
	tm := newTestTimer()
	tm.Write(TMAAddr, 0x42)
	tm.Write(TACAddr, 0x05)
	tm.sysCounter = 0
	tm.tima = 0xFF

	tm.Tick(16) // falling edge -> TIMA overflows to 0x00, reload scheduled
	require.Equal(t, uint8(0), tm.tima)

	tm.Tick(3)
	require.Equal(t, uint8(0), tm.tima)
	tm.Tick(1)
	require.Equal(t, uint8(0x42), tm.tima)
}

func TestTIMAOverflowRaisesTimerInterrupt(t *testing.T) {
	irq := ints.New()
	tm := New(irq, logrus.NewEntry(logrus.New()))
	tm.Write(TACAddr, 0x05)
	tm.sysCounter = 0
	tm.tima = 0xFF

	tm.Tick(20)
	require.NotZero(t, irq.Flag&(1<<ints.Timer))
}

func TestWriteToTIMADuringReloadCancelsReload(t *testing.T) {
	tm := newTestTimer()
	tm.Write(TACAddr, 0x05)
	tm.sysCounter = 0
	tm.tima = 0xFF
	tm.Tick(16) // overflow, reload pending

	tm.Write(TIMAAddr, 0x07)
	tm.Tick(4)
	require.Equal(t, uint8(0x07), tm.tima)
}

func TestTACReadMasksReservedBits(t *testing.T) {
	tm := newTestTimer()
	tm.Write(TACAddr, 0xFF)
	require.Equal(t, uint8(0xFF), tm.Read(TACAddr))
}

func TestDisabledTimerDoesNotIncrementTIMA(t *testing.T) {
	tm := newTestTimer()
	tm.Write(TACAddr, 0x01) // disabled (bit 2 clear), select bit 3
	tm.sysCounter = 0
	tm.Tick(100)
	require.Equal(t, uint8(0), tm.tima)
}
