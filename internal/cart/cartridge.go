package cart

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
)

// Cartridge is the guest-visible ROM/ERAM translation layer: header plus the
// selected MBC implementation.
type Cartridge struct {
	Header Header
	mbc    MBC

	fingerprint uint64
}

// Load parses the header of rom and constructs the matching MBC. A header
// checksum mismatch is logged and execution continues; an unrecognized
// MBC type byte is a load failure.
func Load(rom []byte, log *logrus.Entry) (*Cartridge, error) {
	h, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}
	if !h.ChecksumOK() && log != nil {
		log.Warnf("cart: header checksum mismatch (header=%02x computed=%02x), continuing", h.HeaderChecksum, h.computedChecksum)
	}
	if len(rom) < h.ROMSize && log != nil {
		log.Warnf("cart: rom file (%d bytes) smaller than header declares (%d bytes)", len(rom), h.ROMSize)
	}

	var mbc MBC
	switch h.Type {
	case TypeROM:
		mbc = newROMOnly(rom)
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBatt:
		mbc = newMBC1(rom, h)
	case TypeMBC2, TypeMBC2Batt:
		mbc = newMBC2(rom, h)
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBatt, TypeMBC3TimerBatt, TypeMBC3TimerRAMBatt:
		mbc = newMBC3(rom, h)
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBatt, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		mbc = newMBC5(rom, h)
	default:
		return nil, fmt.Errorf("cart: unsupported cartridge type 0x%02X", h.Type)
	}

	return &Cartridge{
		Header:      h,
		mbc:         mbc,
		fingerprint: xxhash.Sum64(rom),
	}, nil
}

// Read dispatches to the selected MBC.
func (c *Cartridge) Read(addr uint16) uint8 { return c.mbc.Read(addr) }

// Write dispatches to the selected MBC.
func (c *Cartridge) Write(addr uint16, v uint8) { c.mbc.Write(addr, v) }

// Tick advances the cartridge-side RTC, if any (MBC3 only).
func (c *Cartridge) Tick(tCycles uint32) { c.mbc.Tick(tCycles) }

// Fingerprint is a fast, stable hash of the ROM image used to name the
// battery save file.
func (c *Cartridge) Fingerprint() uint64 { return c.fingerprint }

// SaveBattery returns the current battery-backed RAM (and, for MBC3, RTC
// state) if this cartridge type has a battery; nil otherwise.
func (c *Cartridge) SaveBattery() []byte {
	if !c.Header.Battery() {
		return nil
	}
	return c.mbc.SaveRAM()
}

// LoadBattery restores battery-backed RAM (and RTC state) from a previously
// saved image.
func (c *Cartridge) LoadBattery(data []byte) {
	if !c.Header.Battery() || len(data) == 0 {
		return
	}
	c.mbc.LoadRAM(data)
}
