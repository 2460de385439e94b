package draw

// Color is a palette index for canvas pixels and text. ColorNone is an unset
// pixel and renders as the terminal background.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorCyan
	ColorMagenta

	colorUnset Color = 255 // Forces the next SGR write
)

// ANSI sequences shared by the canvas and text overlays.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
)

var fgCodes = [...]string{
	ColorNone:    "\033[39m",
	ColorWhite:   "\033[97m",
	ColorGray:    "\033[90m",
	ColorRed:     "\033[91m",
	ColorOrange:  "\033[38;5;208m",
	ColorYellow:  "\033[93m",
	ColorGreen:   "\033[92m",
	ColorCyan:    "\033[96m",
	ColorMagenta: "\033[95m",
}

var bgCodes = [...]string{
	ColorNone:    "\033[49m",
	ColorWhite:   "\033[107m",
	ColorGray:    "\033[100m",
	ColorRed:     "\033[101m",
	ColorOrange:  "\033[48;5;208m",
	ColorYellow:  "\033[103m",
	ColorGreen:   "\033[102m",
	ColorCyan:    "\033[106m",
	ColorMagenta: "\033[105m",
}

// FG returns the foreground escape sequence for c.
func (c Color) FG() string {
	if int(c) < len(fgCodes) {
		return fgCodes[c]
	}
	return fgCodes[ColorNone]
}

// BG returns the background escape sequence for c.
func (c Color) BG() string {
	if int(c) < len(bgCodes) {
		return bgCodes[c]
	}
	return bgCodes[ColorNone]
}

// Paint wraps s in c's foreground color.
func (c Color) Paint(s string) string {
	return c.FG() + s + Reset
}
