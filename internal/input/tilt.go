package input

import "time"

// Keyboard tilt emulation.
const (
	KeyTiltDegrees  = 36.0                  // Tilt reported while an arrow is held
	KeyTiltInterval = 33 * time.Millisecond // Recognizers report at ~30Hz
)

// KeyTilt stands in for the hand recognizer when playing from a keyboard:
// held left/right keys become tilt readings and the pause key toggles
// hand detection.
type KeyTilt struct {
	detected  bool
	pauseHeld bool
	lastTilt  time.Time
	tilting   bool
}

// NewKeyTilt returns an emulator that starts with hands detected.
func NewKeyTilt() *KeyTilt {
	return &KeyTilt{detected: true}
}

// Detected reports the emulated detection state.
func (k *KeyTilt) Detected() bool {
	return k.detected
}

// Update converts this frame's keys into recognizer signals.
func (k *KeyTilt) Update(in Input, now time.Time) []Signal {
	var out []Signal

	// Toggle on the press edge only; a held key repeats.
	if in.Pause && !k.pauseHeld {
		k.detected = !k.detected
		out = append(out, Detected(k.detected))
	}
	k.pauseHeld = in.Pause

	var degrees float64
	switch {
	case in.Left && !in.Right:
		degrees = KeyTiltDegrees
	case in.Right && !in.Left:
		degrees = -KeyTiltDegrees
	}

	if degrees == 0 {
		if k.tilting {
			// Level the rocket once the key is released.
			out = append(out, Tilt(0))
			k.tilting = false
		}
		return out
	}
	if k.tilting && now.Sub(k.lastTilt) < KeyTiltInterval {
		return out
	}
	k.tilting = true
	k.lastTilt = now
	return append(out, Tilt(degrees))
}
