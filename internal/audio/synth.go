// Package audio turns game cues into sound: synthesized tones on the local
// speaker, or the terminal bell for remote sessions.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/loop"
)

const sampleRate = beep.SampleRate(44100)

// Note lengths at 120 bpm.
const (
	thirtySecond = 62500 * time.Microsecond
	sixteenth    = 125 * time.Millisecond
	eighth       = 250 * time.Millisecond
	quarter      = 500 * time.Millisecond
	half         = time.Second
)

// Synth plays cues on the system speaker. A Synth whose speaker failed to
// initialize stays silent.
type Synth struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	out     func(beep.Streamer)
	enabled bool
}

var _ loop.FX = (*Synth)(nil)

// New initializes the speaker. On failure the error is logged and a silent
// synth is returned.
func New(logger *log.Logger) *Synth {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		if logger != nil {
			logger.Warn("audio disabled", "err", err)
		}
		return Disabled()
	}
	mixer := &beep.Mixer{}
	speaker.Play(mixer)
	return &Synth{
		rate:    sampleRate,
		enabled: true,
		out: func(s beep.Streamer) {
			speaker.Lock()
			mixer.Add(s)
			speaker.Unlock()
		},
	}
}

// Disabled returns a synth that ignores every cue.
func Disabled() *Synth {
	return &Synth{rate: sampleRate}
}

// Enabled reports whether cues reach the speaker.
func (s *Synth) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Play queues the sound for c and returns immediately.
func (s *Synth) Play(c loop.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	if st := Sound(c, s.rate); st != nil {
		s.out(st)
	}
}

// Close stops playback and releases the speaker.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.enabled = false
	speaker.Clear()
	speaker.Close()
}

// Sound builds the streamer for a cue, or nil when the cue is silent.
func Sound(c loop.Cue, rate beep.SampleRate) beep.Streamer {
	switch c.Kind {
	case loop.CueCollision:
		return decibels(beep.Seq(
			tone(WaveSaw, A4, 100*time.Millisecond, rate),
			tone(WaveSaw, F4, 100*time.Millisecond, rate),
			tone(WaveSaw, D4, eighth, rate),
		), -18)
	case loop.CueCollect:
		return decibels(beep.Seq(
			tone(WaveTriangle, E6, 60*time.Millisecond, rate),
			tone(WaveTriangle, A6, thirtySecond, rate),
		), -14)
	case loop.CueCollectRare:
		return decibels(beep.Seq(
			tone(WaveTriangle, C5, 50*time.Millisecond, rate),
			tone(WaveTriangle, E5, 50*time.Millisecond, rate),
			tone(WaveTriangle, G5, 50*time.Millisecond, rate),
			tone(WaveTriangle, C6, eighth, rate),
		), -10)
	case loop.CueGameStart:
		return decibels(beep.Seq(
			chord(WaveTriangle, 150*time.Millisecond, rate, C4, E4, G4),
			chord(WaveTriangle, 150*time.Millisecond, rate, E4, G4, C5),
			chord(WaveTriangle, quarter, rate, G4, C5, E5),
		), -16)
	case loop.CueGameOver:
		return decibels(beep.Seq(
			chord(WaveSine, 300*time.Millisecond, rate, E4, G4, B4),
			chord(WaveSine, 300*time.Millisecond, rate, D4, F4, A4),
			chord(WaveSine, half, rate, C4, Eb4, G4),
		), -14)
	case loop.CueCountdown:
		return decibels(tone(WaveSquare, countdownPitch(c.SecondsLeft), thirtySecond, rate), -22)
	case loop.CueNearMiss:
		return decibels(tone(WaveNoise, 0, sixteenth, rate), -28)
	case loop.CuePause:
		return decibels(tone(WaveSine, C4, 150*time.Millisecond, rate), -20)
	case loop.CueResume:
		return decibels(tone(WaveSine, G4, 150*time.Millisecond, rate), -20)
	default:
		return nil
	}
}

// countdownPitch rises as the round runs out.
func countdownPitch(secondsLeft int) float64 {
	switch {
	case secondsLeft <= 3:
		return G5
	case secondsLeft <= 5:
		return E5
	default:
		return C5
	}
}

// Bell rings the terminal bell for players connected over SSH.
type Bell struct {
	w io.Writer
}

var _ loop.FX = Bell{}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) Bell {
	return Bell{w: w}
}

// Play rings on collisions.
func (b Bell) Play(c loop.Cue) {
	if c.Kind == loop.CueCollision {
		draw.Bell(b.w)
	}
}
