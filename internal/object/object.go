// Package object draws the sprites of a round onto a canvas: meteors, stars
// and the rocket. Sprites are sized by the boxes the collision engine sees.
package object

import (
	"math"
	"time"

	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/physics"
)

// DrawContext provides drawing resources for sprites.
type DrawContext struct {
	Canvas *draw.Canvas
	Now    time.Time
}

// Sprite draws itself into a bounding box.
type Sprite interface {
	Draw(ctx DrawContext, box physics.Rect)
}

// ShouldRenderBlink reports whether an object with remaining protection time
// should be drawn this frame. frequency is in blinks per second.
func ShouldRenderBlink(remaining time.Duration, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	phase := int(remaining.Seconds() * frequency)
	return phase%2 != 0
}

// rotate turns (x, y) around the origin by deg degrees, clockwise on screen.
func rotate(x, y, deg float64) (float64, float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return x*cos - y*sin, x*sin + y*cos
}
