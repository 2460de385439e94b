// Package physics provides the axis-aligned box tests used for collision
// detection and the geometry table the renderer and collision engine share.
package physics

import "math"

// Rect is an axis-aligned bounding box in viewport pixels.
// Y grows downwards.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectAt builds a rect from its top-left corner and size.
func RectAt(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Inset shrinks the rect by margin on all four sides.
// A margin larger than half the size yields an inverted rect that overlaps nothing.
func (r Rect) Inset(margin float64) Rect {
	return Rect{
		Left:   r.Left + margin,
		Top:    r.Top + margin,
		Right:  r.Right - margin,
		Bottom: r.Bottom - margin,
	}
}

// Overlaps reports whether the two rects intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right &&
		r.Right > o.Left &&
		r.Bottom > o.Top &&
		r.Top < o.Bottom
}

// InsetOverlaps reports whether r shrunk by margin intersects the unshrunk o.
func InsetOverlaps(r Rect, margin float64, o Rect) bool {
	return r.Inset(margin).Overlaps(o)
}

// NearMiss reports whether obstacle passes close to target without touching:
// the obstacle's vertical extent lies within band of the target's and their
// horizontal centers are closer than dist.
func NearMiss(obstacle, target Rect, band, dist float64) bool {
	if obstacle.Bottom <= target.Top-band || obstacle.Top >= target.Bottom+band {
		return false
	}
	return math.Abs(obstacle.CenterX()-target.CenterX()) < dist
}
