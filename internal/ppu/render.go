package ppu

import "sort"

// renderScanline resolves background, window and sprite pixels for the
// current line into the back buffer. See the package doc comment for why
// this runs once per line instead of once per dot.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}

	var bgColor [ScreenWidth]uint8   // raw 2-bit index before palette, for sprite priority
	var bgOpaque [ScreenWidth]bool

	if p.lcdc&lcdcBGWindowEnable != 0 {
		p.renderBackground(&bgColor, &bgOpaque)
	}

	windowDrawn := false
	if p.lcdc&lcdcWindowEnable != 0 && p.lcdc&lcdcBGWindowEnable != 0 &&
		p.windowSeen && int(p.wx) <= 166 {
		windowDrawn = p.renderWindow(&bgColor, &bgOpaque)
	}

	for x := 0; x < ScreenWidth; x++ {
		p.back[p.ly][x] = applyPalette(p.bgp, bgColor[x])
	}

	if p.lcdc&lcdcObjEnable != 0 {
		p.renderSprites(&bgOpaque)
	}

	if windowDrawn {
		p.windowLine++
	}
}

func (p *PPU) renderBackground(color *[ScreenWidth]uint8, opaque *[ScreenWidth]bool) {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGTileMap != 0 {
		mapBase = 0x9C00
	}
	y := p.ly + p.scy
	row := uint16(y/8) * 32
	fineY := y % 8

	for x := 0; x < ScreenWidth; x++ {
		sx := uint8(x) + p.scx
		col := uint16(sx / 8)
		tileID := p.vram[mapBase-0x8000+row+col]
		lo, hi := p.tileRow(tileID, fineY, p.lcdc&lcdcBGWindowTiles != 0)
		bit := 7 - (sx % 8)
		idx := (hi>>bit)&1<<1 | (lo>>bit)&1
		color[x] = idx
		opaque[x] = idx != 0
	}
}

func (p *PPU) renderWindow(color *[ScreenWidth]uint8, opaque *[ScreenWidth]bool) bool {
	wx := int(p.wx) - 7
	if wx >= ScreenWidth {
		return false
	}
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowTileMap != 0 {
		mapBase = 0x9C00
	}
	row := uint16(p.windowLine/8) * 32
	fineY := p.windowLine % 8

	drawn := false
	for x := 0; x < ScreenWidth; x++ {
		if x < wx {
			continue
		}
		wxPix := uint16(x - wx)
		col := wxPix / 8
		tileID := p.vram[mapBase-0x8000+row+col]
		lo, hi := p.tileRow(tileID, fineY, p.lcdc&lcdcBGWindowTiles != 0)
		bit := 7 - (wxPix % 8)
		idx := (hi>>bit)&1<<1 | (lo>>bit)&1
		color[x] = idx
		opaque[x] = idx != 0
		drawn = true
	}
	return drawn
}

// tileRow returns the two bit-planes for one row of an 8x8 tile, resolving
// the signed/unsigned BG/window addressing mode selected by LCDC bit 4.
func (p *PPU) tileRow(tileID uint8, fineY uint8, unsigned bool) (lo, hi uint8) {
	var base uint16
	if unsigned {
		base = 0x8000 + uint16(tileID)*16
	} else {
		base = uint16(0x9000 + int(int8(tileID))*16)
	}
	off := base - 0x8000 + uint16(fineY)*2
	return p.vram[off], p.vram[off+1]
}

func (p *PPU) spriteTileRow(tileID uint8, fineY uint8) (lo, hi uint8) {
	off := uint16(tileID)*16 + uint16(fineY)*2
	return p.vram[off], p.vram[off+1]
}

// renderSprites composites the up to 10 sprites selected for this line,
// sorted by X (ties broken by OAM index), onto the already resolved
// background/window row.
func (p *PPU) renderSprites(bgOpaque *[ScreenWidth]bool) {
	ordered := make([]sprite, len(p.selected))
	copy(ordered, p.selected)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].x != ordered[j].x {
			return ordered[i].x < ordered[j].x
		}
		return ordered[i].oamIndex < ordered[j].oamIndex
	})

	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	painted := [ScreenWidth]bool{}

	for _, s := range ordered {
		top := int(s.y) - 16
		line := int(p.ly) - top
		if s.yFlip() {
			line = int(height) - 1 - line
		}
		tile := s.tile
		if height == 16 {
			tile &^= 0x01
			if line >= 8 {
				tile |= 0x01
				line -= 8
			}
		}
		lo, hi := p.spriteTileRow(tile, uint8(line))

		for px := 0; px < 8; px++ {
			sx := int(s.x) - 8 + px
			if sx < 0 || sx >= ScreenWidth {
				continue
			}
			if painted[sx] {
				continue
			}
			bit := px
			if !s.xFlip() {
				bit = 7 - px
			}
			idx := (hi>>uint(bit))&1<<1 | (lo>>uint(bit))&1
			if idx == 0 {
				continue // transparent
			}
			if s.bgPriority() && bgOpaque[sx] {
				painted[sx] = true // claimed, but background wins
				continue
			}
			pal := p.obp0
			if s.palette1() {
				pal = p.obp1
			}
			p.back[p.ly][sx] = applyPalette(pal, idx)
			painted[sx] = true
		}
	}
}

func applyPalette(palette uint8, idx uint8) uint8 {
	return (palette >> (idx * 2)) & 0x03
}
