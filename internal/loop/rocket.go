package loop

import (
	"math"

	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
)

// Rocket is the player's horizontal position. Target comes from tilt input;
// Current eases towards it every frame.
type Rocket struct {
	Current  float64 // Left edge in viewport pixels
	Target   float64
	Rotation float64 // Cosmetic, degrees
	Top      float64 // Fixed vertical position of the top edge
}

// Integrate moves Current a fixed fraction of the way to Target, unless it
// is already within the dead zone.
func (r *Rocket) Integrate() {
	diff := r.Target - r.Current
	if math.Abs(diff) > config.LerpDeadZone {
		r.Current += diff * config.LerpSpeed
	}
}

// Center places the rocket, at rest, in the middle of a viewport of width w.
func (r *Rocket) Center(w float64) {
	r.Current = w / 2
	r.Target = r.Current
	r.Rotation = -45
}

// Box returns the rocket's bounding box.
func (r *Rocket) Box() physics.Rect {
	return physics.RectAt(r.Current, r.Top, config.RocketWidth, config.RocketHeight)
}
