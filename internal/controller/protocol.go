package controller

import (
	"encoding/json"
	"fmt"

	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop"
	"github.com/vmihailenco/msgpack/v5"
)

// Browser -> server message types
const (
	MsgSignal = "signal"
)

// Server -> browser message types, sent as JSON text frames. HUD frames are
// binary msgpack.
const (
	MsgHello = "hello"
	MsgError = "error"
)

// Envelope wraps outgoing text messages with a type field.
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded once T is known.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// HelloMsg greets a freshly paired controller.
type HelloMsg struct {
	Player string `json:"player"`
}

// ErrorMsg reports a problem to the browser.
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// HUD is the compact game state shown on the controller.
type HUD struct {
	Phase     string `msgpack:"p"`
	Mode      string `msgpack:"m"`
	Player    int    `msgpack:"pl"`
	Players   int    `msgpack:"n"`
	Lives     int    `msgpack:"lv"`
	Points    int    `msgpack:"pt"`
	Distance  int    `msgpack:"d"`
	TimeLeft  int    `msgpack:"t"`
	Score     int    `msgpack:"s"`
	HighScore int    `msgpack:"hs"`
	Detected  bool   `msgpack:"det"`
}

// NewHUD extracts the controller view of a snapshot. Player is 1-based.
func NewHUD(s loop.Snapshot) HUD {
	return HUD{
		Phase:     s.Phase.String(),
		Mode:      s.Mode.String(),
		Player:    s.CurrentPlayer + 1,
		Players:   s.PlayerCount,
		Lives:     s.Lives,
		Points:    s.Points,
		Distance:  s.Distance,
		TimeLeft:  s.TimeLeft,
		Score:     s.Score(),
		HighScore: s.HighScore,
		Detected:  s.IsDetected,
	}
}

// EncodeHUD marshals a HUD frame.
func EncodeHUD(h HUD) ([]byte, error) {
	return msgpack.Marshal(&h)
}

// DecodeSignal parses a signal message from the browser.
func DecodeSignal(raw []byte) (input.Signal, error) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return input.Signal{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.T != MsgSignal {
		return input.Signal{}, fmt.Errorf("unexpected message type %q", env.T)
	}
	var sig input.Signal
	if err := json.Unmarshal(env.D, &sig); err != nil {
		return input.Signal{}, fmt.Errorf("decode signal: %w", err)
	}
	return sig, nil
}
