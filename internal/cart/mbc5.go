package cart

// mbc5 implements the MBC5 controller: a 9-bit ROM bank register split
// across two write windows (bank 0 is valid and not aliased, unlike MBC1/2)
// and a 4-bit RAM bank register.
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBankLo  uint8
	romBankHi  uint8 // bit 8 of the ROM bank
	ramBank    uint8

	romBanks int
}

func newMBC5(rom []byte, h Header) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, h.RAMSize), romBankLo: 1, romBanks: h.ROMSize / 0x4000}
}

func (m *mbc5) romBank() int {
	bank := int(m.romBankLo) | int(m.romBankHi)<<8
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *mbc5) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
	case addr < 0x8000:
		off := m.romBank()*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
	}
	return 0xFF
}

func (m *mbc5) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = v
	case addr < 0x4000:
		m.romBankHi = v & 0x01
	case addr < 0x6000:
		m.ramBank = v & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = v
		}
	}
}

func (m *mbc5) Tick(uint32) {}

func (m *mbc5) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc5) LoadRAM(data []byte) {
	copy(m.ram, data)
}
