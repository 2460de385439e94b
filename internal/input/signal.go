// Package input turns player input into rocket targets: terminal key presses,
// and tilt readings from a hand recognizer.
package input

// Signal is one reading from the hand recognizer. Every field is optional;
// only the fields that are set are applied.
type Signal struct {
	IsLoading  *bool    `json:"isLoading,omitempty" msgpack:"l,omitempty"`
	IsDetected *bool    `json:"isDetected,omitempty" msgpack:"d,omitempty"`
	Degrees    *float64 `json:"degrees,omitempty" msgpack:"g,omitempty"`
}

// Detected builds a signal carrying only the detection flag.
func Detected(v bool) Signal {
	return Signal{IsDetected: &v}
}

// Loading builds a signal carrying only the loading flag.
func Loading(v bool) Signal {
	return Signal{IsLoading: &v}
}

// Tilt builds a signal carrying only a tilt reading.
func Tilt(degrees float64) Signal {
	return Signal{Degrees: &degrees}
}

// Empty reports whether the signal carries no fields.
func (s Signal) Empty() bool {
	return s.IsLoading == nil && s.IsDetected == nil && s.Degrees == nil
}

// Normalizer maps tilt readings onto a horizontal rocket target.
type Normalizer struct {
	Divisor float64 // Degrees per pixel of movement
	MinX    float64
	MaxX    float64
}

// NewNormalizer returns a normalizer for a viewport of the given width,
// keeping the rocket's left edge within [margin, width-rightMargin].
func NewNormalizer(divisor, width, margin, rightMargin float64) Normalizer {
	return Normalizer{Divisor: divisor, MinX: margin, MaxX: width - rightMargin}
}

// Target returns the new target after a tilt reading of degrees. A zero
// reading, or one that would move the target out of range, leaves target
// unchanged and reports false.
func (n Normalizer) Target(target, degrees float64) (float64, bool) {
	if degrees == 0 || n.Divisor == 0 {
		return target, false
	}
	next := target - degrees/n.Divisor
	if next < n.MinX || next > n.MaxX {
		return target, false
	}
	return next, true
}

// Rotation returns the rocket's cosmetic rotation in degrees for a tilt reading.
func Rotation(degrees float64) float64 {
	return -45 - degrees/3
}
