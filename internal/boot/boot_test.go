package boot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAcceptsExactSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmg_boot.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, Size), 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	require.Len(t, data, Size)
}

func TestLoadRejectsWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmg_boot.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, Size-1), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}
