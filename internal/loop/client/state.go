package client

import (
	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop"
)

// ClientState holds the per-connection presentation state. The game itself
// lives in loop.Game; this is only what the terminal needs on top of it.
type ClientState struct {
	Input         input.Input
	Snapshot      loop.Snapshot // Latest game snapshot, refreshed every frame
	Running       bool          // Client loop running
	Paired        bool          // A phone controller is attached
	PairURL       string        // Link the phone opens to pair
	PairQR        []string      // PairURL as half-block QR lines
	shutdown      bool          // Server is shutting down
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	prevPhase     loop.Phase
	wasInactive   bool
	wasPaused     bool
	wasShutdown   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: loop.PhaseMenu,
	}
}

// paused reports whether a running round is waiting for hands.
func (s *ClientState) paused() bool {
	return s.Snapshot.Phase == loop.PhasePlaying && !s.Snapshot.IsDetected
}
