// Package boot loads an optional DMG boot ROM image supplied by the user.
// The boot ROM itself is Nintendo's copyrighted firmware and is never
// bundled; callers that want the logo-scroll boot sequence point Load at
// their own dump.
package boot

import (
	"fmt"
	"os"
)

// Size is the length of the original DMG boot ROM.
const Size = 256

// Load reads and validates a boot ROM image from path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	if len(data) != Size {
		return nil, fmt.Errorf("boot: expected a %d-byte image, got %d", Size, len(data))
	}
	return data, nil
}
