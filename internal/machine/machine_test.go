package machine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestROM(battery bool) []byte {
	rom := make([]byte, 0x8000)
	if battery {
		rom[0x147] = 0x03 // MBC1+RAM+BATTERY
	} else {
		rom[0x147] = 0x00 // ROM only
	}
	rom[0x148] = 0x00 // 32KB
	rom[0x149] = 0x02 // 8KB RAM
	return rom
}

type fakeSink struct {
	presented int
}

func (f *fakeSink) Present(frame *[144][160]uint8) { f.presented++ }

type fakeStore struct {
	data map[uint64][]byte
	saves int
}

func newFakeStore() *fakeStore { return &fakeStore{data: make(map[uint64][]byte)} }

func (f *fakeStore) Load(fingerprint uint64) ([]byte, error) {
	d, ok := f.data[fingerprint]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (f *fakeStore) Save(fingerprint uint64, data []byte) error {
	f.saves++
	f.data[fingerprint] = data
	return nil
}

func TestRunFrameProducesExactlyOnePresent(t *testing.T) {
	sink := &fakeSink{}
	m, err := New(newTestROM(false), WithFrameSink(sink))
	require.NoError(t, err)

	m.RunFrame()
	require.Equal(t, 1, sink.presented)

	m.RunFrame()
	require.Equal(t, 2, sink.presented)
}

func TestCloseFlushesBatteryBackedCartridge(t *testing.T) {
	store := newFakeStore()
	m, err := New(newTestROM(true), WithBatteryStore(store))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.Equal(t, 1, store.saves)
	require.Contains(t, store.data, m.cart.Fingerprint())
}

func TestCloseIsNoopWithoutBattery(t *testing.T) {
	m, err := New(newTestROM(false))
	require.NoError(t, err)
	require.NoError(t, m.Close())
}

func TestSaveEveryDoesNotFlushBeforeIntervalElapses(t *testing.T) {
	store := newFakeStore()
	m, err := New(newTestROM(true), WithBatteryStore(store), WithSaveEvery(time.Hour))
	require.NoError(t, err)

	m.RunFrame() // first call only records lastSaveTime, no save yet
	m.RunFrame()
	require.Equal(t, 0, store.saves)
}

func TestSetButtonStateUpdatesJoypad(t *testing.T) {
	m, err := New(newTestROM(false))
	require.NoError(t, err)

	m.SetButtonState(0x01)
	require.NotPanics(t, func() { m.StepInstruction() })

	m.Bus.Write(0xFF00, 0xEF) // select the direction row
	require.Equal(t, uint8(0xEE), m.Bus.Read(0xFF00), "Right (bit 0) reads as pressed")
}
