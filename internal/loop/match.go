package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
	"github.com/tomz197/meteordash/internal/storage"
)

// Match is the state that outlives a single round.
type Match struct {
	Phase         Phase
	Mode          Mode
	PlayerCount   int
	CurrentPlayer int
	Results       []PlayerResult // One per finished round, in play order
	HighScore     int
	Leaderboard   []storage.Entry
}

// StartSolo starts a one-player match from the menu.
func (g *Game) StartSolo() error {
	if g.match.Phase != PhaseMenu {
		return ErrInvalidTransition
	}
	g.startMatch(ModeSolo, 1)
	return nil
}

// StartMulti starts a turn-based match for n players from the menu.
func (g *Game) StartMulti(n int) error {
	if g.match.Phase != PhaseMenu {
		return ErrInvalidTransition
	}
	if n < 2 || n > config.MaxPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayerCount, n)
	}
	g.startMatch(ModeMulti, n)
	return nil
}

// PlayAgain starts a new solo round after game over.
func (g *Game) PlayAgain() error {
	if g.match.Phase != PhaseGameOver || g.match.Mode != ModeSolo {
		return ErrInvalidTransition
	}
	g.startRound()
	return nil
}

// NextPlayer hands the game to player idx after game over. idx must be the
// player right after the current one.
func (g *Game) NextPlayer(idx int) error {
	if g.match.Phase != PhaseGameOver || g.match.Mode != ModeMulti {
		return ErrInvalidTransition
	}
	if idx != g.match.CurrentPlayer+1 || idx >= g.match.PlayerCount {
		return ErrInvalidTransition
	}
	g.match.CurrentPlayer = idx
	g.startRound()
	return nil
}

// ShowResults moves to the ranking once the last player has finished.
func (g *Game) ShowResults() error {
	if g.match.Phase != PhaseGameOver || g.match.CurrentPlayer != g.match.PlayerCount-1 {
		return ErrInvalidTransition
	}
	g.setPhase(PhaseResults)
	return nil
}

// BackToMenu abandons the match and returns to the menu.
func (g *Game) BackToMenu() error {
	if g.match.Phase != PhaseGameOver && g.match.Phase != PhaseResults {
		return ErrInvalidTransition
	}
	g.resetRound(g.clock.Now())
	g.match.Results = nil
	g.match.CurrentPlayer = 0
	g.match.HighScore = max(g.match.HighScore, g.records.HighScore())
	g.match.Leaderboard = g.records.Leaderboard()
	g.setPhase(PhaseMenu)
	return nil
}

func (g *Game) startMatch(mode Mode, players int) {
	g.match.Mode = mode
	g.match.PlayerCount = players
	g.match.CurrentPlayer = 0
	g.match.Results = nil
	g.startRound()
}

// startRound resets everything round-scoped and begins playing.
func (g *Game) startRound() {
	now := g.clock.Now()
	g.resetRound(now)
	g.setPhase(PhasePlaying)
	g.fx.Play(Cue{Kind: CueGameStart})
	g.syncTimers(now)
	g.publish()
}

// resetRound cancels the round timers before anything else, so no callback
// can touch the fresh state.
func (g *Game) resetRound(now time.Time) {
	g.stopTimers()
	g.queue.reset()
	g.obstacles.Clear()
	g.rewards.Clear()
	g.tracker.Reset()
	g.round = newRound(now)
	g.rocket.Center(g.viewW)
	g.tracker.Set(physics.RocketKey, g.rocket.Box())
}

// gameOver ends the current round and records its result.
func (g *Game) gameOver(now time.Time) {
	g.stopTimers()
	r := g.round
	result := PlayerResult{
		Player:   g.match.CurrentPlayer,
		Points:   r.Points,
		Distance: r.Distance,
		Score:    Score(r.Distance, r.Points),
	}
	g.match.Results = append(g.match.Results, result)

	// Other sessions may have raised the stored record since this game read it.
	g.match.HighScore = max(g.match.HighScore, g.records.RaiseHighScore(result.Score))
	g.match.Leaderboard = g.records.AddEntry(storage.Entry{
		Name:     g.leaderboardName(result.Player),
		Score:    result.Score,
		Points:   result.Points,
		Distance: result.Distance,
		Date:     now,
	})
	g.logger.Info("round over", "player", result.Player+1, "score", result.Score,
		"points", result.Points, "distance", result.Distance)

	g.setPhase(PhaseGameOver)
	g.fx.Play(Cue{Kind: CueGameOver})
}

// setPhase switches phase and forces a snapshot sync.
func (g *Game) setPhase(p Phase) {
	g.match.Phase = p
	g.syncCounters()
	g.publish()
}

func (g *Game) leaderboardName(player int) string {
	base := g.playerName
	if g.match.Mode == ModeSolo {
		if base == "" {
			return "Player 1"
		}
		return base
	}
	if base == "" {
		return fmt.Sprintf("Player %d", player+1)
	}
	return fmt.Sprintf("%s #%d", base, player+1)
}
