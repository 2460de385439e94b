package input

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizerTarget(t *testing.T) {
	n := NewNormalizer(6, 1280, 20, 52)

	tests := []struct {
		name    string
		target  float64
		degrees float64
		want    float64
		applied bool
	}{
		{"tilt left moves left", 640, 30, 635, true},
		{"tilt right moves right", 640, -30, 645, true},
		{"zero is ignored", 640, 0, 640, false},
		{"below min is discarded", 22, 30, 22, false},
		{"above max is discarded", 1226, -30, 1226, false},
		{"exactly max is kept", 1223, -30, 1228, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Target(tt.target, tt.degrees)
			if got != tt.want || ok != tt.applied {
				t.Errorf("Target(%v, %v) = %v, %v; want %v, %v", tt.target, tt.degrees, got, ok, tt.want, tt.applied)
			}
		})
	}
}

func TestRotation(t *testing.T) {
	if got := Rotation(0); got != -45 {
		t.Errorf("Rotation(0) = %v", got)
	}
	if got := Rotation(30); got != -55 {
		t.Errorf("Rotation(30) = %v", got)
	}
}

func TestSignalDecodesPartialFields(t *testing.T) {
	var s Signal
	if err := json.Unmarshal([]byte(`{"degrees":-12.5}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.IsDetected != nil || s.IsLoading != nil {
		t.Error("absent fields must stay nil")
	}
	if s.Degrees == nil || *s.Degrees != -12.5 {
		t.Errorf("Degrees = %v", s.Degrees)
	}
	if (Signal{}).Empty() != true || s.Empty() {
		t.Error("Empty mismatch")
	}
}

func TestKeyTilt(t *testing.T) {
	k := NewKeyTilt()
	now := time.Unix(0, 0)

	out := k.Update(Input{Left: true}, now)
	if len(out) != 1 || *out[0].Degrees != KeyTiltDegrees {
		t.Fatalf("first left frame = %+v", out)
	}
	if out := k.Update(Input{Left: true}, now.Add(10*time.Millisecond)); len(out) != 0 {
		t.Errorf("tilt emitted faster than recognizer rate: %+v", out)
	}
	if out := k.Update(Input{Left: true}, now.Add(KeyTiltInterval)); len(out) != 1 {
		t.Errorf("expected tilt after interval, got %+v", out)
	}
	out = k.Update(Input{}, now.Add(50*time.Millisecond))
	if len(out) != 1 || *out[0].Degrees != 0 {
		t.Errorf("release should level the rocket, got %+v", out)
	}

	out = k.Update(Input{Pause: true}, now.Add(60*time.Millisecond))
	if len(out) != 1 || out[0].IsDetected == nil || *out[0].IsDetected {
		t.Fatalf("pause press = %+v, want detected=false", out)
	}
	if out := k.Update(Input{Pause: true}, now.Add(70*time.Millisecond)); len(out) != 0 {
		t.Error("held pause key toggled twice")
	}
	k.Update(Input{}, now.Add(80*time.Millisecond))
	k.Update(Input{Pause: true}, now.Add(90*time.Millisecond))
	if !k.Detected() {
		t.Error("second press should restore detection")
	}
}
