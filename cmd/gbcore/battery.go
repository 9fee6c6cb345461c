package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileBatteryStore persists battery-backed cartridge RAM as one file per
// ROM fingerprint under dir, named "<fingerprint>.sav".
type fileBatteryStore struct {
	dir string
}

func (s fileBatteryStore) path(fingerprint uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x.sav", fingerprint))
}

func (s fileBatteryStore) Load(fingerprint uint64) ([]byte, error) {
	return os.ReadFile(s.path(fingerprint))
}

func (s fileBatteryStore) Save(fingerprint uint64, data []byte) error {
	return os.WriteFile(s.path(fingerprint), data, 0o644)
}
