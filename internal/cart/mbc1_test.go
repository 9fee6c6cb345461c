package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newMBC1ROM(banks int) *mbc1 {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = uint8(b) // tag byte 0 of each bank with its index
	}
	h := Header{ROMSize: len(rom)}
	return newMBC1(rom, h)
}

func TestMBC1BankSwitchSelectsCorrectROMBank(t *testing.T) {
	m := newMBC1ROM(4)
	m.Write(0x2000, 0x02) // select bank 2
	require.Equal(t, uint8(2), m.Read(0x4000))
}

func TestMBC1BankZeroAliasesToBankOne(t *testing.T) {
	m := newMBC1ROM(4)
	m.Write(0x2000, 0x00) // writing 0 to the bank register aliases to 1
	require.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	h := Header{ROMSize: 0x8000, RAMSize: 0x2000}
	m := newMBC1(make([]byte, 0x8000), h)
	require.Equal(t, uint8(0xFF), m.Read(0xA000))
}

func TestMBC1RAMEnableAndWrite(t *testing.T) {
	h := Header{ROMSize: 0x8000, RAMSize: 0x2000}
	m := newMBC1(make([]byte, 0x8000), h)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x99)
	require.Equal(t, uint8(0x99), m.Read(0xA000))
}
