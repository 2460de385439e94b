package loop

import (
	"time"

	"github.com/tomz197/meteordash/internal/storage"
)

// Snapshot is what the presentation layer sees of a game. Distance and
// Points lag the live counters by up to the sync interval; everything else
// is current as of the last frame or action.
type Snapshot struct {
	Phase         Phase
	Mode          Mode
	PlayerCount   int
	CurrentPlayer int
	PlayerResults []PlayerResult

	IsLoading  bool
	IsDetected bool

	Distance int
	Points   int
	TimeLeft int
	Lives    int

	HighScore   int
	Leaderboard []storage.Entry

	FallSeconds    int // Current obstacle fall duration
	RocketX        float64
	RocketTop      float64
	RocketRotation float64
	InvincibleLeft time.Duration
}

// Snapshot returns the published state. Slices are copies.
func (g *Game) Snapshot() Snapshot {
	s := g.snap
	s.PlayerResults = append([]PlayerResult(nil), g.snap.PlayerResults...)
	s.Leaderboard = append([]storage.Entry(nil), g.snap.Leaderboard...)
	return s
}

// Score returns the weighted score of the published counters.
func (s Snapshot) Score() int {
	return Score(s.Distance, s.Points)
}

// LastPlayer reports whether the current player is the last of the match.
func (s Snapshot) LastPlayer() bool {
	return s.CurrentPlayer == s.PlayerCount-1
}

// syncCounters copies the fast-path counters into the snapshot.
func (g *Game) syncCounters() {
	g.snap.Distance = g.round.Distance
	g.snap.Points = g.round.Points
}

// publish refreshes every snapshot field except the throttled counters.
func (g *Game) publish() {
	g.snap.Phase = g.match.Phase
	g.snap.Mode = g.match.Mode
	g.snap.PlayerCount = g.match.PlayerCount
	g.snap.CurrentPlayer = g.match.CurrentPlayer
	g.snap.PlayerResults = g.match.Results
	g.snap.IsLoading = g.isLoading
	g.snap.IsDetected = g.isDetected
	g.snap.TimeLeft = g.round.TimeLeft
	g.snap.Lives = g.round.Lives
	g.snap.HighScore = g.match.HighScore
	g.snap.Leaderboard = g.match.Leaderboard
	g.snap.FallSeconds = FallSeconds(g.round.Distance)
	g.snap.RocketX = g.rocket.Current
	g.snap.RocketTop = g.rocket.Top
	g.snap.RocketRotation = g.rocket.Rotation
	g.snap.InvincibleLeft = g.round.InvincibleLeft()
}
