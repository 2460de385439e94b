package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop"
	"github.com/tomz197/meteordash/internal/loop/server"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

type stubPairer struct{}

func (stubPairer) PairingURL(sid string) (string, error) {
	return "http://192.168.1.10:8081/controller?token=" + sid, nil
}

// newTestClient returns a client reading keys from the returned writer.
func newTestClient(t *testing.T, out io.Writer, opts ClientOptions) (*Client, *server.Server, *io.PipeWriter) {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = fixedSize(80, 24)
	}
	registry := server.NewServer(nil)
	return NewClient(registry, bufio.NewReader(pr), out, opts), registry, pw
}

// pressUntil sends key and processes input until cond holds.
func pressUntil(t *testing.T, c *Client, pw *io.PipeWriter, key string, cond func() bool) {
	t.Helper()
	go pw.Write([]byte(key))
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.processInput()
		c.refresh()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("key %q had no effect", key)
}

func TestClampTermSize(t *testing.T) {
	for _, tt := range []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{200, 60, 160, 50, 20, 5},
		{0, 0, 1, 1, 0, 0},
	} {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d, %d) = %d %d %d %d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}

func TestRankResults(t *testing.T) {
	results := []loop.PlayerResult{
		{Player: 0, Score: 40},
		{Player: 1, Score: 90},
		{Player: 2, Score: 60},
	}
	ranked, tie := rankResults(results)
	if tie {
		t.Error("distinct scores reported as tie")
	}
	if ranked[0].Player != 1 || ranked[1].Player != 2 || ranked[2].Player != 0 {
		t.Errorf("ranking = %+v", ranked)
	}
	if results[0].Player != 0 {
		t.Error("input slice reordered")
	}

	_, tie = rankResults([]loop.PlayerResult{{Player: 0, Score: 50}, {Player: 1, Score: 50}})
	if !tie {
		t.Error("equal top scores not a tie")
	}
	_, tie = rankResults([]loop.PlayerResult{{Player: 0}, {Player: 1}})
	if tie {
		t.Error("zero scores reported as tie")
	}
}

func TestKeyboardStartsAndPausesRound(t *testing.T) {
	c, registry, pw := newTestClient(t, io.Discard, ClientOptions{Username: "alice"})
	defer c.game.Close()

	if _, ok := registry.Lookup(c.Session().ID); !ok {
		t.Fatal("session not registered")
	}
	snap := c.game.Snapshot()
	if snap.IsLoading || !snap.IsDetected {
		t.Fatalf("keyboard not ready: loading=%v detected=%v", snap.IsLoading, snap.IsDetected)
	}

	pressUntil(t, c, pw, "1", func() bool { return c.state.Snapshot.Phase == loop.PhasePlaying })
	if !c.game.Active() {
		t.Fatal("round not active after start")
	}

	pressUntil(t, c, pw, "p", func() bool { return c.state.paused() })
	if c.game.Active() {
		t.Error("round active while paused")
	}
}

func TestMenuStartsMultiplayer(t *testing.T) {
	c, _, pw := newTestClient(t, io.Discard, ClientOptions{})
	defer c.game.Close()

	pressUntil(t, c, pw, "3", func() bool { return c.state.Snapshot.Phase == loop.PhasePlaying })
	if c.state.Snapshot.Mode != loop.ModeMulti || c.state.Snapshot.PlayerCount != 3 {
		t.Errorf("mode = %v players = %d", c.state.Snapshot.Mode, c.state.Snapshot.PlayerCount)
	}
}

func TestControllerTakesOverDetection(t *testing.T) {
	c, _, _ := newTestClient(t, io.Discard, ClientOptions{})
	defer c.game.Close()
	if err := c.game.StartSolo(); err != nil {
		t.Fatal(err)
	}

	sess := c.Session()
	sess.Attach()
	c.processServerEvents()
	if !c.state.Paired {
		t.Fatal("pairing not noticed")
	}

	sess.Deliver(input.Detected(false))
	c.processSignals()
	if c.game.Active() {
		t.Fatal("controller signal did not pause the round")
	}

	// Leaving hands control back to the keyboard, which has hands on.
	sess.Detach()
	c.processServerEvents()
	if c.state.Paired {
		t.Error("still paired after controller left")
	}
	if !c.game.Active() {
		t.Error("round still paused after controller left")
	}
}

func TestRunExitsWhenInputEnds(t *testing.T) {
	var out bytes.Buffer
	registry := server.NewServer(nil)
	c := NewClient(registry, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
	})

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after input closed")
	}
	if registry.Len() != 0 {
		t.Error("session not unregistered")
	}
	if !strings.Contains(out.String(), "\033[?25l") || !strings.Contains(out.String(), "\033[?25h") {
		t.Error("cursor not hidden and restored")
	}
}

func TestMenuShowsRecordsAndPairingCode(t *testing.T) {
	var out bytes.Buffer
	c, _, _ := newTestClient(t, &out, ClientOptions{
		TermSizeFunc: fixedSize(160, 50),
		Pairer:       stubPairer{},
	})
	defer c.game.Close()

	if len(c.state.PairQR) == 0 {
		t.Fatal("no pairing QR")
	}
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	frame := out.String()
	for _, want := range []string{"High score: 0", "Scan to steer", c.state.PairQR[0]} {
		if !strings.Contains(frame, want) {
			t.Errorf("menu frame is missing %q", want)
		}
	}
}
