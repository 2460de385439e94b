package draw

import "strings"

// HalfBlocks packs a bitmap two rows per text line. Set bits are drawn as
// blocks, unset bits as spaces. Rows may differ in length.
func HalfBlocks(bits [][]bool) []string {
	lines := make([]string, 0, (len(bits)+1)/2)
	at := func(y, x int) bool {
		return y < len(bits) && x < len(bits[y]) && bits[y][x]
	}
	for y := 0; y < len(bits); y += 2 {
		width := len(bits[y])
		if y+1 < len(bits) {
			width = max(width, len(bits[y+1]))
		}
		var b strings.Builder
		for x := 0; x < width; x++ {
			top, bottom := at(y, x), at(y+1, x)
			switch {
			case top && bottom:
				b.WriteRune(BlockFull)
			case top:
				b.WriteRune(BlockUpperHalf)
			case bottom:
				b.WriteRune(BlockLowerHalf)
			default:
				b.WriteByte(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
