// Package cart implements cartridge header parsing and the memory bank
// controller translation layer between guest addresses in 0000-7FFF/A000-BFFF
// and physical offsets in ROM or external RAM.
package cart

// MBC translates guest addresses in the ROM and external-RAM windows into
// cartridge storage, and owns any per-cartridge persistent state (RAM, RTC).
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)

	// Tick advances any cartridge-side clock (only MBC3's RTC cares); a
	// no-op for every other controller.
	Tick(tCycles uint32)

	// SaveRAM returns the external RAM image (and, for MBC3, RTC state) to
	// be persisted as a battery save.
	SaveRAM() []byte
	// LoadRAM restores external RAM (and RTC state) from a battery save.
	LoadRAM(data []byte)
}
