package object

import (
	"math"

	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/physics"
)

const starPoints = 5

// Star is a reward. Rare stars are larger-looking and change color.
type Star struct {
	Rare      bool
	Collected bool
}

// Draw fills a five-pointed star inside box. Collected stars are not drawn.
func (s Star) Draw(ctx DrawContext, box physics.Rect) {
	if s.Collected {
		return
	}
	cx, cy := box.CenterX(), box.CenterY()
	outer := math.Min(box.Width(), box.Height()) / 2
	inner := outer * 0.45

	points := ctx.Canvas.BorrowPoints(starPoints * 2)
	for i := range points {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		x, y := rotate(0, -r, float64(i)*180/starPoints)
		points[i] = draw.Point{X: cx + x, Y: cy + y}
	}
	ctx.Canvas.DrawPolygon(points, s.color(ctx), true)
}

func (s Star) color(ctx DrawContext) draw.Color {
	if !s.Rare {
		return draw.ColorYellow
	}
	if ctx.Now.UnixMilli()/250%2 == 0 {
		return draw.ColorMagenta
	}
	return draw.ColorCyan
}
