package romfile

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRawROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.gb")
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadFromZipFindsROMEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	entry, err := w.Create("readme.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("not a rom"))
	require.NoError(t, err)

	want := []byte{0x01, 0x02, 0x03}
	entry, err = w.Create("game.gbc")
	require.NoError(t, err)
	_, err = entry.Write(want)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadFromZipWithNoROMEntryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	entry, err := w.Create("readme.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("not a rom"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	_, err = Load(path)
	require.Error(t, err)
}
