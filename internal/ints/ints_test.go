package ints

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestAndClear(t *testing.T) {
	c := New()
	c.Request(Timer)
	require.NotZero(t, c.Flag&(1<<Timer))

	c.Clear(Timer)
	require.Zero(t, c.Flag&(1<<Timer))
}

func TestNextReturnsHighestPriorityPendingEnabled(t *testing.T) {
	c := New()
	c.Enable = 0x1F
	c.Request(Serial)
	c.Request(VBlank)
	c.Request(Timer)

	f, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, VBlank, f)
}

func TestNextIgnoresDisabledSources(t *testing.T) {
	c := New()
	c.Enable = 1 << Timer
	c.Request(VBlank)
	c.Request(Timer)

	f, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, Timer, f)
}

func TestPendingFalseWhenNothingEnabled(t *testing.T) {
	c := New()
	c.Request(VBlank)
	require.False(t, c.Pending())

	c.Enable = 1 << VBlank
	require.True(t, c.Pending())
}

func TestReadIFAlwaysSetsUpperBits(t *testing.T) {
	c := New()
	c.Flag = 0x01
	require.Equal(t, uint8(0xE1), c.Read(FlagAddr))
}

func TestWriteRoundTrips(t *testing.T) {
	c := New()
	c.Write(EnableAddr, 0x1F)
	require.Equal(t, uint8(0x1F), c.Read(EnableAddr))
}
