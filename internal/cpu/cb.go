package cpu

// cbTable is the 256-entry CB-prefixed dispatch table: rotate/shift/swap
// (0x00-0x3F), BIT (0x40-0x7F), RES (0x80-0xBF) and SET (0xC0-0xFF), each a
// clean 8x8 grid over the 8 shift operations (or 8 bit indices) and the 8
// register operands.
var cbTable [256]func(*CPU)

var shiftOps = [8]func(*CPU, uint8) uint8{
	(*CPU).rlc,
	(*CPU).rrc,
	(*CPU).rl,
	(*CPU).rr,
	(*CPU).sla,
	(*CPU).sra,
	(*CPU).swap,
	(*CPU).srl,
}

func init() {
	for group := uint8(0); group < 8; group++ {
		for reg := uint8(0); reg < 8; reg++ {
			op := group*8 + reg
			g, r := group, reg
			cbTable[op] = func(c *CPU) { c.setReg8(r, shiftOps[g](c, c.reg8(r))) }
		}
	}
	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			op := 0x40 + bit*8 + reg
			b, r := bit, reg
			cbTable[op] = func(c *CPU) { c.bit(c.reg8(r), b) }
		}
	}
	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			op := 0x80 + bit*8 + reg
			b, r := bit, reg
			cbTable[op] = func(c *CPU) { c.setReg8(r, res(c.reg8(r), b)) }
		}
	}
	for bit := uint8(0); bit < 8; bit++ {
		for reg := uint8(0); reg < 8; reg++ {
			op := 0xC0 + bit*8 + reg
			b, r := bit, reg
			cbTable[op] = func(c *CPU) { c.setReg8(r, set(c.reg8(r), b)) }
		}
	}
}
