package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/physics"
)

// Meteor is an irregular rock outline. The shape is derived from a seed so
// the same obstacle looks the same every frame.
type Meteor struct {
	Vertices []float64 // Radius factor per vertex, around 1.0
	Rotation float64   // Base rotation in degrees
	Spin     float64   // Degrees per second
	Born     time.Time
}

// NewMeteor builds the meteor for an obstacle with the given sequence number.
func NewMeteor(seq uint64, rotation float64, born time.Time) *Meteor {
	rng := rand.New(rand.NewSource(int64(seq)*7919 + 1))
	n := 8 + rng.Intn(5)
	vertices := make([]float64, n)
	for i := range vertices {
		// ±30% for an irregular rim
		vertices[i] = 0.7 + rng.Float64()*0.6
	}
	return &Meteor{
		Vertices: vertices,
		Rotation: rotation,
		Spin:     (rng.Float64() - 0.5) * 90,
		Born:     born,
	}
}

// Draw fills the meteor inside box.
func (m *Meteor) Draw(ctx DrawContext, box physics.Rect) {
	cx, cy := box.CenterX(), box.CenterY()
	radius := math.Min(box.Width(), box.Height()) / 2 / 1.3
	angle := m.Rotation + m.Spin*ctx.Now.Sub(m.Born).Seconds()

	points := ctx.Canvas.BorrowPoints(len(m.Vertices))
	for i, dist := range m.Vertices {
		vert := angle + float64(i)*360/float64(len(m.Vertices))
		x, y := rotate(dist*radius, 0, vert)
		points[i] = draw.Point{X: cx + x, Y: cy + y}
	}
	ctx.Canvas.DrawPolygon(points, draw.ColorOrange, true)

	// A darker crater keeps the fill from reading as a blob at low resolution.
	crater := radius * 0.3
	cxo, cyo := rotate(radius*0.25, -radius*0.2, angle)
	ctx.Canvas.FillRect(cx+cxo-crater/2, cy+cyo-crater/2, crater, crater, draw.ColorRed)
}
