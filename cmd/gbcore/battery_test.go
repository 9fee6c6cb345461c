package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileBatteryStoreRoundTrips(t *testing.T) {
	store := fileBatteryStore{dir: t.TempDir()}
	const fingerprint = uint64(0xC0FFEE)
	want := []byte{1, 2, 3, 4, 5}

	require.NoError(t, store.Save(fingerprint, want))

	got, err := store.Load(fingerprint)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFileBatteryStoreLoadMissingReturnsError(t *testing.T) {
	store := fileBatteryStore{dir: t.TempDir()}
	_, err := store.Load(0xDEADBEEF)
	require.Error(t, err)
}
