package object

import (
	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/physics"
)

// rocketBaseAngle is the rotation at which the rocket points straight up.
const rocketBaseAngle = -45

// Rocket is the player's ship: a hull with fins and an exhaust flame.
type Rocket struct {
	Rotation float64 // Degrees, rocketBaseAngle is upright
	Flame    bool    // Draw the exhaust
}

// Draw renders the rocket inside box, tilted around its center.
func (r Rocket) Draw(ctx DrawContext, box physics.Rect) {
	cx, cy := box.CenterX(), box.CenterY()
	hw, hh := box.Width()/2, box.Height()/2
	tilt := r.Rotation - rocketBaseAngle

	shape := func(col draw.Color, pts ...draw.Point) {
		out := ctx.Canvas.BorrowPoints(len(pts))
		for i, p := range pts {
			x, y := rotate(p.X, p.Y, tilt)
			out[i] = draw.Point{X: cx + x, Y: cy + y}
		}
		ctx.Canvas.DrawPolygon(out, col, true)
	}

	if r.Flame {
		flicker := 0.0
		if ctx.Now.UnixMilli()/80%2 == 0 {
			flicker = hh * 0.15
		}
		shape(draw.ColorOrange,
			draw.Point{X: -hw * 0.35, Y: hh * 0.7},
			draw.Point{X: hw * 0.35, Y: hh * 0.7},
			draw.Point{X: 0, Y: hh*0.85 + flicker},
		)
	}
	// Fins
	shape(draw.ColorRed,
		draw.Point{X: -hw * 0.5, Y: hh * 0.1},
		draw.Point{X: -hw, Y: hh * 0.75},
		draw.Point{X: -hw * 0.5, Y: hh * 0.6},
	)
	shape(draw.ColorRed,
		draw.Point{X: hw * 0.5, Y: hh * 0.1},
		draw.Point{X: hw, Y: hh * 0.75},
		draw.Point{X: hw * 0.5, Y: hh * 0.6},
	)
	// Hull
	shape(draw.ColorWhite,
		draw.Point{X: 0, Y: -hh},
		draw.Point{X: hw * 0.5, Y: -hh * 0.4},
		draw.Point{X: hw * 0.5, Y: hh * 0.7},
		draw.Point{X: -hw * 0.5, Y: hh * 0.7},
		draw.Point{X: -hw * 0.5, Y: -hh * 0.4},
	)
	// Window
	shape(draw.ColorCyan,
		draw.Point{X: 0, Y: -hh * 0.35},
		draw.Point{X: hw * 0.22, Y: -hh * 0.2},
		draw.Point{X: 0, Y: -hh * 0.05},
		draw.Point{X: -hw * 0.22, Y: -hh * 0.2},
	)
}
