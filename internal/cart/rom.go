package cart

// romOnly implements MBC for cartridges with no banking hardware: ROM reads
// are direct, writes are ignored, and there is no external RAM.
type romOnly struct {
	rom []byte
}

func newROMOnly(rom []byte) *romOnly {
	return &romOnly{rom: rom}
}

func (m *romOnly) Read(addr uint16) uint8 {
	if int(addr) < len(m.rom) {
		return m.rom[addr]
	}
	return 0xFF
}

func (m *romOnly) Write(uint16, uint8)    {}
func (m *romOnly) Tick(uint32)            {}
func (m *romOnly) SaveRAM() []byte        { return nil }
func (m *romOnly) LoadRAM(data []byte)    {}
