package loop

import (
	"io"

	"github.com/charmbracelet/log"
)

// CueKind identifies a sound/visual effect trigger.
type CueKind int

const (
	CueCollision   CueKind = iota // Life lost
	CueCollect                    // Normal reward picked up
	CueCollectRare                // Rare reward picked up
	CueGameStart
	CueGameOver
	CueCountdown // Last seconds of the round, see Cue.SecondsLeft
	CueNearMiss  // Obstacle passed close by
	CuePause     // Hands lost while playing
	CueResume    // Hands found again
)

func (k CueKind) String() string {
	switch k {
	case CueCollision:
		return "collision"
	case CueCollect:
		return "collect"
	case CueCollectRare:
		return "collect-rare"
	case CueGameStart:
		return "game-start"
	case CueGameOver:
		return "game-over"
	case CueCountdown:
		return "countdown"
	case CueNearMiss:
		return "near-miss"
	case CuePause:
		return "pause"
	case CueResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Cue is one effect trigger.
type Cue struct {
	Kind        CueKind
	SecondsLeft int // Set for CueCountdown
}

// FX plays effects. Play must not block the caller.
type FX interface {
	Play(Cue)
}

// NopFX discards every cue.
type NopFX struct{}

// Play does nothing.
func (NopFX) Play(Cue) {}

// FXFunc adapts a function to FX.
type FXFunc func(Cue)

// Play calls f(c).
func (f FXFunc) Play(c Cue) { f(c) }

// MultiFX fans cues out to several sinks.
type MultiFX []FX

// Play forwards c to every sink.
func (m MultiFX) Play(c Cue) {
	for _, fx := range m {
		fx.Play(c)
	}
}

// safeFX shields the loop from misbehaving sinks.
type safeFX struct {
	fx     FX
	logger *log.Logger
}

func newSafeFX(fx FX, logger *log.Logger) safeFX {
	if fx == nil {
		fx = NopFX{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return safeFX{fx: fx, logger: logger}
}

func (s safeFX) Play(c Cue) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("fx sink panicked", "cue", c.Kind, "panic", r)
		}
	}()
	s.fx.Play(c)
}
