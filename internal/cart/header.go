package cart

import "fmt"

// Type is the cartridge hardware type byte at 0x0147.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBatt       Type = 0x03
	TypeMBC2              Type = 0x05
	TypeMBC2Batt          Type = 0x06
	TypeMBC3TimerBatt     Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBatt       Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBatt       Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header describes the cartridge metadata at 0x0100-0x014F.
type Header struct {
	Title          string
	Type           Type
	ROMSize        int
	RAMSize        int
	HeaderChecksum uint8

	computedChecksum uint8
}

// Battery reports whether this cartridge type persists RAM across power
// cycles.
func (h Header) Battery() bool {
	switch h.Type {
	case TypeMBC1RAMBatt, TypeMBC2Batt, TypeMBC3TimerBatt, TypeMBC3TimerRAMBatt,
		TypeMBC3RAMBatt, TypeMBC5RAMBatt, TypeMBC5RumbleRAMBatt:
		return true
	}
	return false
}

// ChecksumOK reports whether the header checksum byte matches the
// ROM contents. A mismatch is a non-fatal anomaly: real
// hardware does not gate on it.
func (h Header) ChecksumOK() bool {
	return h.HeaderChecksum == h.computedChecksum
}

func parseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cart: rom too small to contain a header (%d bytes)", len(rom))
	}

	h := Header{
		Type:           Type(rom[0x147]),
		ROMSize:        (32 * 1024) << rom[0x148],
		RAMSize:        ramSizes[rom[0x149]],
		HeaderChecksum: rom[0x14D],
	}

	title := rom[0x134:0x144]
	end := len(title)
	for end > 0 && title[end-1] == 0 {
		end--
	}
	h.Title = string(title[:end])

	var sum uint8
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	h.computedChecksum = sum

	return h, nil
}
