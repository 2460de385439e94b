package client

import (
	"bufio"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/meteordash/internal/audio"
	"github.com/tomz197/meteordash/internal/controller"
	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/loop/server"
	"github.com/tomz197/meteordash/internal/physics"
	"github.com/tomz197/meteordash/internal/storage"
)

// Pairer hands out controller pairing links.
type Pairer interface {
	PairingURL(sessionID string) (string, error)
}

// Client runs one game on one terminal: keyboard and controller input in,
// frames out.
type Client struct {
	registry     server.Registry
	session      *server.Session
	game         *loop.Game
	tracker      *physics.Tracker
	animator     *Animator
	keyTilt      *input.KeyTilt
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Records      *storage.Records // nil keeps records in memory
	FX           loop.FX          // Sound cues, e.g. an audio.Synth
	Bell         bool             // Ring the terminal bell on collisions
	Pairer       Pairer           // nil disables phone controllers
	Logger       *log.Logger
	ViewWidth    float64
	ViewHeight   float64
}

// NewClient creates a client with its own game, registered with the given
// server.
func NewClient(reg server.Registry, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	viewW, viewH := opts.ViewWidth, opts.ViewHeight
	if viewW <= 0 || viewH <= 0 {
		viewW, viewH = config.DefaultViewWidth, config.DefaultViewHeight
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, viewW, viewH)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	var fx loop.MultiFX
	if opts.FX != nil {
		fx = append(fx, opts.FX)
	}
	if opts.Bell {
		// The bell goes out with the next frame, on this goroutine.
		fx = append(fx, audio.NewBell(chunkWriter))
	}

	tracker := physics.NewTracker()
	game := loop.New(loop.Options{
		ViewWidth:  viewW,
		ViewHeight: viewH,
		FX:         fx,
		Records:    opts.Records,
		Logger:     logger,
		Tracker:    tracker,
		PlayerName: opts.Username,
	})

	session := reg.Register(opts.Username)
	state := NewClientState()
	c := &Client{
		registry:     reg,
		session:      session,
		game:         game,
		tracker:      tracker,
		animator:     NewAnimator(tracker, viewH),
		keyTilt:      input.NewKeyTilt(),
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}

	if opts.Pairer != nil {
		c.setupPairing(opts.Pairer)
	}

	// The keyboard is a recognizer that is ready immediately.
	game.Apply(input.Loading(false))
	game.Apply(input.Detected(c.keyTilt.Detected()))
	state.Snapshot = game.Snapshot()
	return c
}

func (c *Client) setupPairing(p Pairer) {
	link, err := p.PairingURL(c.session.ID)
	if err != nil {
		c.logger.Warn("pairing unavailable", "err", err)
		return
	}
	c.state.PairURL = link
	qr, err := controller.PairingQR(link)
	if err != nil {
		c.logger.Warn("pairing qr", "err", err)
		return
	}
	c.state.PairQR = qr
}

// Session returns the client's session.
func (c *Client) Session() *server.Session {
	return c.session
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.game.Close()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processSignals()
		c.processServerEvents()
		c.updateScreen()

		c.game.Frame()
		c.animator.Advance(frameStart, c.game.Obstacles(), c.game.Rewards(),
			c.state.Snapshot.FallSeconds, c.game.Active())
		c.refresh()

		if c.state.shutdown {
			c.state.shutdownTimer -= delta.Seconds()
			if c.state.shutdownTimer <= 0 {
				c.state.Running = false
			}
		}

		if err := c.drawFrame(); err != nil {
			c.registry.Unregister(c.session.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.registry.Unregister(c.session.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// refresh pulls the game snapshot and shares it with the controller.
func (c *Client) refresh() {
	snap := c.game.Snapshot()
	if snap.Phase != c.state.Snapshot.Phase && snap.Phase == loop.PhasePlaying {
		c.animator.Reset()
	}
	c.state.Snapshot = snap
	c.session.Publish(snap)
}

// processInput reads the keyboard, turns held arrows into tilt signals and
// presentation keys into match actions.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	now := time.Now()

	if len(c.state.Input.Pressed) > 0 {
		c.touch(now)
	}
	c.checkInactivity(now)

	in := c.state.Input
	if in.Quit || c.inputStream.Closed() {
		c.state.Running = false
		return
	}
	if c.state.shutdown {
		return
	}

	// Any key dismisses the inactivity warning without acting.
	if c.state.wasInactive && len(in.Pressed) > 0 {
		input.ResetKeyInput(c.inputStream)
		return
	}

	snap := c.state.Snapshot
	var err error
	acted := true
	switch snap.Phase {
	case loop.PhaseMenu:
		switch {
		case in.Number == 1 || in.Space || in.Enter:
			err = c.game.StartSolo()
		case in.Number >= 2 && in.Number <= config.MaxPlayers:
			err = c.game.StartMulti(in.Number)
		default:
			acted = false
		}
	case loop.PhasePlaying:
		acted = false
		for _, sig := range c.keyTilt.Update(in, now) {
			c.game.Apply(sig)
		}
	case loop.PhaseGameOver:
		switch {
		case in.Space || in.Enter:
			err = c.primaryAction(snap)
		case in.Results:
			err = c.game.ShowResults()
		case in.Menu || in.Escape:
			err = c.game.BackToMenu()
		default:
			acted = false
		}
	case loop.PhaseResults:
		if in.Space || in.Enter || in.Menu || in.Escape {
			err = c.game.BackToMenu()
		} else {
			acted = false
		}
	}

	if !acted {
		return
	}
	if err != nil && !errors.Is(err, loop.ErrInvalidTransition) {
		c.logger.Debug("action rejected", "phase", snap.Phase, "err", err)
	}
	// Don't let the key that changed screens act on the next one.
	input.ResetKeyInput(c.inputStream)
}

// primaryAction is what SPACE does on the gameover card: replay, hand over
// to the next player, or show the ranking.
func (c *Client) primaryAction(snap loop.Snapshot) error {
	switch {
	case snap.Mode == loop.ModeSolo:
		return c.game.PlayAgain()
	case snap.LastPlayer():
		return c.game.ShowResults()
	default:
		return c.game.NextPlayer(snap.CurrentPlayer + 1)
	}
}

func (c *Client) touch(now time.Time) {
	c.lastInput = now
	c.state.isInactive = false
}

func (c *Client) checkInactivity(now time.Time) {
	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case idle > config.InactivityDisconnectUser:
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}
}

// processSignals feeds queued controller signals into the game.
func (c *Client) processSignals() {
	for {
		select {
		case sig := <-c.session.Signals():
			c.touch(time.Now())
			c.game.Apply(sig)
		default:
			return
		}
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event := <-c.session.Events():
			switch event.Type {
			case server.EventServerShutdown:
				c.state.shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventControllerPaired:
				c.state.Paired = true
				c.logger.Info("controller paired", "user", c.username)
			case server.EventControllerLeft:
				c.state.Paired = false
				// Hand detection back to the keyboard.
				c.game.Apply(input.Detected(c.keyTilt.Detected()))
				c.logger.Info("controller left", "user", c.username)
			}
		case <-c.session.Done():
			c.state.Running = false
			return
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.Resize(renderWidth, renderHeight)
		c.canvas.SetOffset(offsetCol, offsetRow)
		c.chunkWriter.SetOffset(offsetCol, offsetRow)
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
