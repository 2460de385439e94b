// Package loop implements Meteor Dash's game loop: the per-frame update of
// the rocket, the falling entities and the round/match state machine.
package loop

import "errors"

// Errors returned by presentation actions.
var (
	ErrInvalidTransition  = errors.New("loop: action not allowed in current phase")
	ErrInvalidPlayerCount = errors.New("loop: player count out of range")
)

// Phase is the match phase.
type Phase int

const (
	PhaseMenu     Phase = iota // Title screen, mode selection
	PhasePlaying               // A round is running (possibly paused)
	PhaseGameOver              // Round ended, waiting for the next action
	PhaseResults               // Multiplayer ranking
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// Mode selects single or local turn-based play.
type Mode int

const (
	ModeSolo Mode = iota
	ModeMulti
)

func (m Mode) String() string {
	if m == ModeMulti {
		return "multi"
	}
	return "solo"
}

// PlayerResult is the outcome of one finished round.
type PlayerResult struct {
	Player   int `json:"player" msgpack:"player"`
	Points   int `json:"points" msgpack:"points"`
	Distance int `json:"distance" msgpack:"distance"`
	Score    int `json:"score" msgpack:"score"`
}
