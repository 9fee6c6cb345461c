package cart

import "encoding/binary"

// rtc holds the MBC3's five clock subregisters plus the latched snapshot
// presented to the guest between latch writes.
type rtc struct {
	seconds, minutes, hours uint8
	dayLow, dayHigh         uint8 // dayHigh: bit0 = day bit 8, bit6 = halt, bit7 = day carry

	latched struct {
		seconds, minutes, hours  uint8
		dayLow, dayHigh          uint8
	}

	subSecondCycles uint32
	latchSeq        uint8 // tracks the 0 then 1 write sequence on 6000-7FFF
}

func (r *rtc) halted() bool { return r.dayHigh&0x40 != 0 }

func (r *rtc) tick(tCycles uint32) {
	if r.halted() {
		return
	}
	r.subSecondCycles += tCycles
	for r.subSecondCycles >= 4194304 {
		r.subSecondCycles -= 4194304
		r.advanceSecond()
	}
}

func (r *rtc) advanceSecond() {
	r.seconds++
	if r.seconds < 60 {
		return
	}
	r.seconds = 0
	r.minutes++
	if r.minutes < 60 {
		return
	}
	r.minutes = 0
	r.hours++
	if r.hours < 24 {
		return
	}
	r.hours = 0
	day := uint16(r.dayLow) | uint16(r.dayHigh&0x01)<<8
	day++
	if day > 0x1FF {
		day = 0
		r.dayHigh |= 0x80 // carry
	}
	r.dayLow = uint8(day)
	r.dayHigh = r.dayHigh&^0x01 | uint8(day>>8)
}

func (r *rtc) latch(v uint8) {
	if v == 0x00 {
		r.latchSeq = 1
	} else if v == 0x01 && r.latchSeq == 1 {
		r.latched.seconds = r.seconds
		r.latched.minutes = r.minutes
		r.latched.hours = r.hours
		r.latched.dayLow = r.dayLow
		r.latched.dayHigh = r.dayHigh
		r.latchSeq = 0
	} else {
		r.latchSeq = 0
	}
}

func (r *rtc) read(reg uint8) uint8 {
	switch reg {
	case 0x08:
		return r.latched.seconds
	case 0x09:
		return r.latched.minutes
	case 0x0A:
		return r.latched.hours
	case 0x0B:
		return r.latched.dayLow
	case 0x0C:
		return r.latched.dayHigh | 0x3E
	}
	return 0xFF
}

func (r *rtc) write(reg uint8, v uint8) {
	switch reg {
	case 0x08:
		r.seconds = v
	case 0x09:
		r.minutes = v
	case 0x0A:
		r.hours = v
	case 0x0B:
		r.dayLow = v
	case 0x0C:
		r.dayHigh = v & 0xC1
	}
}

func (r *rtc) marshal() []byte {
	return []byte{r.seconds, r.minutes, r.hours, r.dayLow, r.dayHigh}
}

func (r *rtc) unmarshal(b []byte) {
	if len(b) < 5 {
		return
	}
	r.seconds, r.minutes, r.hours, r.dayLow, r.dayHigh = b[0], b[1], b[2], b[3], b[4]
	r.latched.seconds, r.latched.minutes, r.latched.hours = b[0], b[1], b[2]
	r.latched.dayLow, r.latched.dayHigh = b[3], b[4]
}

// mbc3 implements the MBC3 controller: a 7-bit ROM bank register, a 4-bank
// RAM window shared with the RTC register file (selected 0-3 vs 8-C), and
// the latch sequencer on 6000-7FFF.
type mbc3 struct {
	rom []byte
	ram []byte

	ramRTCEnabled bool
	romBank       uint8
	ramBank       uint8 // 0-3 selects RAM, 8-C selects an RTC register

	rtc rtc

	romBanks int
}

func newMBC3(rom []byte, h Header) *mbc3 {
	return &mbc3{
		rom:      rom,
		ram:      make([]byte, h.RAMSize),
		romBank:  1,
		romBanks: h.ROMSize / 0x4000,
	}
}

func (m *mbc3) Read(addr uint16) uint8 {
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
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramRTCEnabled {
			return 0xFF
		}
		if m.ramBank >= 0x08 {
			return m.rtc.read(m.ramBank)
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramRTCEnabled = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = v
	case addr < 0x8000:
		m.rtc.latch(v)
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramRTCEnabled {
			return
		}
		if m.ramBank >= 0x08 {
			m.rtc.write(m.ramBank, v)
			return
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = v
		}
	}
}

func (m *mbc3) Tick(tCycles uint32) {
	m.rtc.tick(tCycles)
}

// SaveRAM appends the RTC registers and an 8-byte little-endian unix-seconds
// anchor after the ERAM image.
func (m *mbc3) SaveRAM() []byte {
	out := make([]byte, 0, len(m.ram)+5+8)
	out = append(out, m.ram...)
	out = append(out, m.rtc.marshal()...)
	anchor := make([]byte, 8)
	binary.LittleEndian.PutUint64(anchor, uint64(nowUnix()))
	out = append(out, anchor...)
	return out
}

func (m *mbc3) LoadRAM(data []byte) {
	n := copy(m.ram, data)
	rest := data[n:]
	if len(rest) < 5 {
		return
	}
	m.rtc.unmarshal(rest[:5])
	if len(rest) >= 5+8 {
		anchor := int64(binary.LittleEndian.Uint64(rest[5 : 5+8]))
		m.rtc.catchUp(nowUnix() - anchor)
	}
}

func (r *rtc) catchUp(elapsedSeconds int64) {
	if elapsedSeconds <= 0 || r.halted() {
		return
	}
	for i := int64(0); i < elapsedSeconds; i++ {
		r.advanceSecond()
	}
}
