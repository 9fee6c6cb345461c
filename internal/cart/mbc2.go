package cart

// mbc2 implements the MBC2 controller: a 4-bit ROM bank register and 512 x
// 4-bit nibbles of built-in RAM (the high nibble of each byte always reads
// as 1). Register writes are gated on address bit 8 rather than address
// range: bit 8 clear selects the RAM-enable latch, bit 8 set selects the ROM
// bank register.
type mbc2 struct {
	rom []byte
	ram [512]uint8

	ramEnabled bool
	romBank    uint8

	romBanks int
}

func newMBC2(rom []byte, h Header) *mbc2 {
	return &mbc2{rom: rom, romBank: 1, romBanks: h.ROMSize / 0x4000}
}

func (m *mbc2) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
	case addr < 0x8000:
		bank := int(m.romBank)
		if m.romBanks > 0 {
			bank %= m.romBanks
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
	case addr >= 0xA000 && addr < 0xA200:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr-0xA000] | 0xF0
	case addr >= 0xA200 && addr < 0xC000:
		// echoes of the 512-nibble RAM
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[(addr-0xA000)%0x200] | 0xF0
	}
	return 0xFF
}

func (m *mbc2) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x4000:
		if addr&0x0100 == 0 {
			m.ramEnabled = v&0x0F == 0x0A
		} else {
			v &= 0x0F
			if v == 0 {
				v = 1
			}
			m.romBank = v
		}
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return
		}
		m.ram[(addr-0xA000)%0x200] = v & 0x0F
	}
}

func (m *mbc2) Tick(uint32) {}

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(data []byte) {
	copy(m.ram[:], data)
}
