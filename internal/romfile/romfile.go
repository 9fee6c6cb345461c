// Package romfile loads a Game Boy ROM image from a raw .gb/.gbc file, or
// transparently from the first ROM-like entry of a .zip or .7z archive
// using bodgit/sevenzip.
package romfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

var romExtensions = map[string]bool{
	".gb": true, ".gbc": true, ".dmg": true,
}

// Load reads path, unwrapping a .zip or .7z container if present, and
// returns the raw ROM bytes.
func Load(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return loadFromZip(path)
	case ".7z":
		return loadFromSevenZip(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("romfile: %w", err)
		}
		return data, nil
	}
}

func loadFromZip(path string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romfile: opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !romExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("romfile: reading %s from zip: %w", f.Name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, rc); err != nil {
			return nil, fmt.Errorf("romfile: reading %s from zip: %w", f.Name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("romfile: no ROM entry found in %s", path)
}

func loadFromSevenZip(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romfile: opening 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !romExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("romfile: reading %s from 7z: %w", f.Name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, rc); err != nil {
			return nil, fmt.Errorf("romfile: reading %s from 7z: %w", f.Name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("romfile: no ROM entry found in %s", path)
}
