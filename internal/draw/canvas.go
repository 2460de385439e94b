package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Half-block glyphs used to pack two pixels into one terminal cell.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cell is what one terminal position shows: the colors of its two pixels.
type cell struct {
	top, bottom Color
}

var dirtyCell = cell{top: colorUnset, bottom: colorUnset}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Game code draws in logical coordinates which are scaled onto the
// terminal. Render only rewrites cells that changed since the previous frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int     // termHeight * 2
	pixels         []Color // [y*termWidth + x]
	shown          []cell  // Last rendered state per terminal cell
	redraw         bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based terminal offset of the render area when the terminal is larger
	// than the max resolution.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	curFG, curBG    Color
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas of termWidth x termHeight cells showing a
// logicalWidth x logicalHeight coordinate space.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A resize forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.redraw = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset of the render area.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.redraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the render area width in columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the render area height in rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalWidth returns the width of the logical coordinate space.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the height of the logical coordinate space.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// Clear resets all pixels. The terminal keeps its content until the next Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based (col, row), so the next Render repaints them from the canvas.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	row--
	col--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col, 0); x < col+n && x < c.termWidth; x++ {
		c.shown[row*c.termWidth+x] = dirtyCell
	}
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the color at pixel coordinates, for tests and hit overlays.
func (c *Canvas) Pixel(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// Set colors the pixel under the logical point (x, y).
func (c *Canvas) Set(x, y float64, col Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), col)
}

// DrawLine draws a line between two logical points (Bresenham).
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon, filling the interior when filled is set.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, col)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon is a scanline fill in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		for i := 0; i < n; i++ {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// FillRect fills the logical rectangle with top-left (x, y).
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := int(math.Ceil((x+w)*c.scaleX)) - 1
	y1 := int(math.Ceil((y+h)*c.scaleY)) - 1
	for py := max(y0, 0); py <= y1 && py < c.subPixelHeight; py++ {
		for px := max(x0, 0); px <= x1 && px < c.termWidth; px++ {
			c.pixels[py*c.termWidth+px] = col
		}
	}
}

// StrokeRect outlines the logical rectangle with top-left (x, y).
func (c *Canvas) StrokeRect(x, y, w, h float64, col Color) {
	c.DrawPolygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, col, false)
}

// BorrowPoints returns a reusable slice of n points, valid until the next call.
// Each goroutine must use its own Canvas.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

// LogicalToTerminal converts a logical point to the 1-based (col, row) of the
// cell showing it, relative to the render area.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// Render writes every changed cell to w.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.curFG, c.curBG = colorUnset, colorUnset

	for row := 0; row < c.termHeight; row++ {
		top := c.pixels[row*2*c.termWidth:]
		bottom := c.pixels[(row*2+1)*c.termWidth:]
		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: top[col], bottom: bottom[col]}
			i := row*c.termWidth + col
			if !c.redraw && c.shown[i] == cur {
				continue
			}
			c.shown[i] = cur
			c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			c.writeCell(cur)
		}
	}
	c.redraw = false

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(Reset)
	writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeCell(cur cell) {
	switch {
	case cur.top == ColorNone && cur.bottom == ColorNone:
		c.setColors(ColorNone, ColorNone)
		c.renderBuf.WriteByte(' ')
	case cur.top == cur.bottom:
		c.setColors(cur.top, ColorNone)
		c.renderBuf.WriteRune(BlockFull)
	case cur.bottom == ColorNone:
		c.setColors(cur.top, ColorNone)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.top == ColorNone:
		c.setColors(cur.bottom, ColorNone)
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.setColors(cur.top, cur.bottom)
		c.renderBuf.WriteRune(BlockUpperHalf)
	}
}

func (c *Canvas) setColors(fg, bg Color) {
	if fg != c.curFG {
		c.renderBuf.WriteString(fg.FG())
		c.curFG = fg
	}
	if bg != c.curBG {
		c.renderBuf.WriteString(bg.BG())
		c.curBG = bg
	}
}

// RenderBorder frames the render area when the terminal exceeds the max
// resolution: horizontal bars when there is a row offset, vertical bars when
// there is a column offset, corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var b strings.Builder
	b.WriteString(ColorGray.FG())
	if hasV {
		if hasH {
			b.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + bar + "┐")
			b.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + bar + "┘")
		} else {
			b.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left+1) + "H" + bar)
			b.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left+1) + "H" + bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			r := strconv.Itoa(row)
			b.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	b.WriteString(Reset)
	writeChunked(w, b.String())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
