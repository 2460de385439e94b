package client

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomz197/meteordash/internal/draw"
	"github.com/tomz197/meteordash/internal/loop"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/object"
	"github.com/tomz197/meteordash/internal/physics"
)

// ASCII art titles (figlet "small" font)
var (
	titleArt = []string{
		`  __  __ ___ _____ ___ ___  ___   ___   _   ___ _  _  `,
		` |  \/  | __|_   _| __/ _ \| _ \ |   \ /_\ / __| || | `,
		` | |\/| | _|  | | | _| (_) |   / | |) / _ \\__ \ __ | `,
		` |_|  |_|___| |_| |___\___/|_|_\ |___/_/ \_\___/_||_| `,
	}
	gameOverArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	resultsArt = []string{
		`  ___ ___ ___ _   _ _  _____ ___  `,
		` | _ \ __/ __| | | | ||_   _/ __| `,
		` |   / _|\__ \ |_| | |__| | \__ \ `,
		` |_|_\___|___/\___/|____|_| |___/ `,
	}
)

const repoURL = "https://github.com/tomz197/meteordash"

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	s := c.state
	paused := s.paused()
	if s.Snapshot.Phase != s.prevPhase || s.isInactive != s.wasInactive ||
		paused != s.wasPaused || s.shutdown != s.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		s.prevPhase = s.Snapshot.Phase
		s.wasInactive = s.isInactive
		s.wasPaused = paused
		s.wasShutdown = s.shutdown
	}

	c.canvas.Clear()
	if s.Snapshot.Phase == loop.PhasePlaying && !s.shutdown && !s.isInactive {
		c.drawRound(time.Now())
	}
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawRound draws the falling entities and the rocket.
func (c *Client) drawRound(now time.Time) {
	ctx := object.DrawContext{Canvas: c.canvas, Now: now}

	for _, e := range c.game.Rewards() {
		if box, ok := c.tracker.Get(e.Key); ok {
			object.Star{Rare: e.Rare, Collected: e.Collected}.Draw(ctx, box)
		}
	}
	for _, e := range c.game.Obstacles() {
		box, ok := c.tracker.Get(e.Key)
		meteor := c.animator.Meteor(e.Key)
		if ok && meteor != nil {
			meteor.Draw(ctx, box)
		}
	}

	snap := c.state.Snapshot
	if !object.ShouldRenderBlink(snap.InvincibleLeft, config.PlayerBlinkFrequency) {
		return
	}
	if box, ok := c.tracker.Get(physics.RocketKey); ok {
		object.Rocket{Rotation: snap.RocketRotation, Flame: snap.IsDetected}.Draw(ctx, box)
	}
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.Snapshot.Phase {
	case loop.PhaseMenu:
		c.drawMenuScreen(termWidth, termHeight)
	case loop.PhasePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
		if c.state.paused() {
			c.drawPausedOverlay(centerX, centerY)
		}
	case loop.PhaseGameOver:
		c.drawGameOverScreen(centerX, centerY)
	case loop.PhaseResults:
		c.drawResultsScreen(centerX, centerY)
	}
}

// drawArt writes lines centered on centerX starting at row y and returns the
// row below them.
func (c *Client) drawArt(centerX, y int, art []string, color draw.Color) int {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(max(centerX-width/2, 1), y+i, color.Paint(line))
	}
	return y + len(art)
}

// blinkOn toggles every 600ms for prompts.
func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawMenuScreen draws the title, records and pairing code.
func (c *Client) drawMenuScreen(termWidth, termHeight int) {
	cw := c.chunkWriter
	snap := c.state.Snapshot

	// With room to spare the QR code sits to the right of the menu.
	qr := c.state.PairQR
	qrWidth := 0
	if len(qr) > 0 {
		qrWidth = len([]rune(qr[0]))
	}
	showQR := qrWidth > 0 && termWidth >= len(titleArt[0])+qrWidth+6 && len(qr)+2 <= termHeight
	centerX := termWidth / 2
	if showQR {
		centerX = (termWidth - qrWidth - 2) / 2
	}

	y := max(termHeight/2-11, 1)
	y = c.drawArt(centerX, y, titleArt, draw.ColorOrange) + 1
	cw.WriteCentered(centerX, y, "~ Tilt to dodge meteors and catch stars ~")
	y += 2

	cw.WriteCentered(centerX, y, draw.ColorYellow.Paint(fmt.Sprintf("High score: %d", snap.HighScore)))
	y += 2

	if len(snap.Leaderboard) > 0 {
		cw.WriteCentered(centerX, y, "Leaderboard")
		y++
		// Keep room for the controls below.
		rows := min(len(snap.Leaderboard), max(termHeight-y-9, 0))
		for i, e := range snap.Leaderboard[:rows] {
			line := fmt.Sprintf("%2d. %-*s %6d", i+1, config.MaxNameLength, truncate(e.Name, config.MaxNameLength), e.Score)
			cw.WriteCentered(centerX, y, line)
			y++
		}
		y++
	}

	controls := []string{
		"< > / A D  . . . Steer",
		"P  . . .  Hands on/off",
		"Q  . . . . . . .  Quit",
	}
	for _, line := range controls {
		cw.WriteCentered(centerX, y, line)
		y++
	}
	y++

	if blinkOn() {
		cw.WriteCentered(centerX, y, ">>  1 / SPACE Solo    2-3 Multiplayer  <<")
	} else {
		cw.WriteCentered(centerX, y, strings.Repeat(" ", 41))
	}
	y += 2

	if c.state.Paired {
		cw.WriteCentered(centerX, y, draw.ColorGreen.Paint("Phone controller paired"))
	} else if c.state.PairURL != "" && !showQR {
		cw.WriteCentered(centerX, y, draw.Hyperlink(c.state.PairURL, "Open this link on your phone to steer by tilting"))
	}

	if y+2 <= termHeight {
		cw.WriteCentered(centerX, termHeight, draw.Hyperlink(repoURL, "github.com/tomz197/meteordash"))
	}

	if showQR {
		col := termWidth - qrWidth - 1
		row := max((termHeight-len(qr)-1)/2, 1)
		cw.WriteAt(col, row, "Scan to steer with your phone")
		for i, line := range qr {
			cw.WriteAt(col, row+1+i, line)
		}
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	snap := c.state.Snapshot

	left := fmt.Sprintf("Points: %-6d Distance: %-6d", snap.Points, snap.Distance)
	if snap.Mode == loop.ModeMulti {
		left = fmt.Sprintf("Player %d/%d  ", snap.CurrentPlayer+1, snap.PlayerCount) + left
	}
	cw.WriteAt(2, 1, left)

	timer := fmt.Sprintf("%02d:%02d", snap.TimeLeft/60, snap.TimeLeft%60)
	if snap.TimeLeft <= config.CountdownWarnAt {
		timer = draw.ColorRed.Paint(timer)
	}
	cw.WriteCentered(termWidth/2, 1, timer)

	lives := strings.Repeat("♥ ", snap.Lives) + strings.Repeat("  ", max(config.InitialLives-snap.Lives, 0))
	right := fmt.Sprintf("Best: %-6d Lives: %s", snap.HighScore, lives)
	cw.WriteAt(max(termWidth-draw.TextWidth(right), 1), 1, draw.ColorRed.Paint(right))

	hint := "< > steer   P pause   Q quit"
	if c.state.Paired {
		hint = "phone paired   P pause   Q quit"
	}
	cw.WriteAt(2, termHeight, fmt.Sprintf("%-32s", hint))

	if snap.IsLoading {
		cw.WriteCentered(termWidth/2, 3, "Starting hand tracking...")
	}
}

// drawPausedOverlay draws the pause notice over the frozen round.
func (c *Client) drawPausedOverlay(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-1, draw.ColorYellow.Paint("PAUSED"))
	hint := "Show your hands to resume"
	if !c.state.Paired {
		hint = "Press P to resume"
	}
	cw.WriteCentered(centerX, centerY+1, hint)
}

// drawGameOverScreen draws the result card of the finished round.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	cw := c.chunkWriter
	snap := c.state.Snapshot

	y := c.drawArt(centerX, centerY-7, gameOverArt, draw.ColorRed) + 1
	if snap.Mode == loop.ModeMulti {
		cw.WriteCentered(centerX, y, fmt.Sprintf("Player %d of %d", snap.CurrentPlayer+1, snap.PlayerCount))
		y++
	}
	y++

	score := snap.Score()
	for _, line := range []string{
		fmt.Sprintf("Distance  %6d", snap.Distance),
		fmt.Sprintf("Points    %6d", snap.Points),
		fmt.Sprintf("Score     %6d", score),
	} {
		cw.WriteCentered(centerX, y, line)
		y++
	}
	y++
	if score > 0 && score == snap.HighScore {
		cw.WriteCentered(centerX, y, draw.ColorYellow.Paint("New high score!"))
	} else {
		cw.WriteCentered(centerX, y, fmt.Sprintf("High score %d", snap.HighScore))
	}
	y += 2

	if blinkOn() {
		var prompt string
		switch {
		case snap.Mode == loop.ModeSolo:
			prompt = ">>  SPACE Play again   M Menu  <<"
		case snap.LastPlayer():
			prompt = ">>  SPACE See results   M Menu  <<"
		default:
			prompt = fmt.Sprintf(">>  SPACE Player %d's turn   M Menu  <<", snap.CurrentPlayer+2)
		}
		cw.WriteCentered(centerX, y, prompt)
	} else {
		cw.WriteCentered(centerX, y, strings.Repeat(" ", 40))
	}
}

// rankResults sorts results by score, best first. tie reports a shared
// first place with a positive score.
func rankResults(results []loop.PlayerResult) (ranked []loop.PlayerResult, tie bool) {
	ranked = slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b loop.PlayerResult) int { return b.Score - a.Score })
	tie = len(ranked) > 1 && ranked[0].Score == ranked[1].Score && ranked[0].Score > 0
	return ranked, tie
}

// placeColors colors the podium.
var placeColors = []draw.Color{draw.ColorYellow, draw.ColorWhite, draw.ColorOrange}

// drawResultsScreen draws the multiplayer ranking.
func (c *Client) drawResultsScreen(centerX, centerY int) {
	cw := c.chunkWriter
	ranked, tie := rankResults(c.state.Snapshot.PlayerResults)

	y := c.drawArt(centerX, centerY-7, resultsArt, draw.ColorYellow) + 2
	places := []string{"1st", "2nd", "3rd"}
	for i, r := range ranked {
		line := fmt.Sprintf("%s  Player %d   score %6d   points %5d   distance %5d",
			places[min(i, len(places)-1)], r.Player+1, r.Score, r.Points, r.Distance)
		if i == 0 && !tie {
			line += "  WINNER!"
		} else {
			line += "         "
		}
		cw.WriteCentered(centerX, y, placeColors[min(i, len(placeColors)-1)].Paint(line))
		y++
	}
	y++
	if tie {
		cw.WriteCentered(centerX, y, draw.ColorYellow.Paint("It's a tie!"))
	}
	y += 2

	if blinkOn() {
		cw.WriteCentered(centerX, y, ">>  SPACE Back to menu  <<")
	} else {
		cw.WriteCentered(centerX, y, strings.Repeat(" ", 26))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg)
	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
