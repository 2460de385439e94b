package loop

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/meteordash/internal/clock"
	"github.com/tomz197/meteordash/internal/entity"
	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
	"github.com/tomz197/meteordash/internal/storage"
)

// Options configures a Game. Zero values get sensible defaults.
type Options struct {
	ViewWidth  float64
	ViewHeight float64
	Clock      clock.Clock
	Rand       *rand.Rand
	FX         FX
	Records    *storage.Records // nil keeps records in memory only
	Logger     *log.Logger
	Tracker    *physics.Tracker // Shared with the renderer; created when nil
	PlayerName string           // Leaderboard name, e.g. the SSH user
}

// Game is one match: the rocket, the entity stores, the timers and the
// match state machine. It is owned by a single goroutine; nothing in it is
// safe for concurrent use.
type Game struct {
	viewW, viewH float64
	clock        clock.Clock
	rng          *rand.Rand
	fx           safeFX
	records      *storage.Records
	logger       *log.Logger
	playerName   string

	sched      *clock.Scheduler
	timers     []clock.TaskID
	tracker    *physics.Tracker
	obstacles  *entity.Store
	rewards    *entity.Store
	normalizer input.Normalizer
	queue      eventQueue

	rocket Rocket
	match  Match
	round  *Round

	isLoading    bool
	isDetected   bool
	lastFrame    time.Time
	lastNearMiss time.Time

	snap Snapshot
}

// New creates a game sitting on the menu.
func New(opts Options) *Game {
	if opts.ViewWidth <= 0 {
		opts.ViewWidth = config.DefaultViewWidth
	}
	if opts.ViewHeight <= 0 {
		opts.ViewHeight = config.DefaultViewHeight
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Records == nil {
		opts.Records = storage.NewRecords(storage.NewMemory(), opts.Logger)
	}
	if opts.Tracker == nil {
		opts.Tracker = physics.NewTracker()
	}

	g := &Game{
		viewW:      opts.ViewWidth,
		viewH:      opts.ViewHeight,
		clock:      opts.Clock,
		rng:        opts.Rand,
		fx:         newSafeFX(opts.FX, opts.Logger),
		records:    opts.Records,
		logger:     opts.Logger,
		playerName: opts.PlayerName,
		sched:      clock.NewScheduler(),
		tracker:    opts.Tracker,
		obstacles:  entity.NewStore(entity.KindObstacle, config.MaxObstacles, config.EntityTTL),
		rewards:    entity.NewStore(entity.KindReward, config.MaxRewards, config.EntityTTL),
		normalizer: input.NewNormalizer(config.TiltDivisor, opts.ViewWidth, config.RocketMinX, config.RocketRightMargin),
		isLoading:  true,
	}
	// Geometry of removed entities must never be seen by the collision engine.
	g.obstacles.OnRemove(g.tracker.Delete)
	g.rewards.OnRemove(g.tracker.Delete)

	g.rocket.Top = g.viewH - config.RocketBottomSpace - config.RocketHeight
	g.rocket.Center(g.viewW)
	g.tracker.Set(physics.RocketKey, g.rocket.Box())

	now := g.clock.Now()
	g.round = newRound(now)
	g.lastFrame = now
	g.match = Match{
		Phase:       PhaseMenu,
		HighScore:   g.records.HighScore(),
		Leaderboard: g.records.Leaderboard(),
	}
	g.syncCounters()
	g.publish()
	return g
}

// Close stops all timers.
func (g *Game) Close() {
	g.stopTimers()
}

// Active reports whether the round is running: playing with hands detected.
func (g *Game) Active() bool {
	return g.match.Phase == PhasePlaying && g.isDetected
}

// Apply feeds one recognizer signal into the game. Only set fields apply.
func (g *Game) Apply(sig input.Signal) {
	if sig.IsLoading != nil {
		g.isLoading = *sig.IsLoading
	}
	if sig.IsDetected != nil && *sig.IsDetected != g.isDetected {
		g.isDetected = *sig.IsDetected
		if g.match.Phase == PhasePlaying {
			if g.isDetected {
				g.fx.Play(Cue{Kind: CueResume})
			} else {
				g.fx.Play(Cue{Kind: CuePause})
			}
		}
		g.syncTimers(g.clock.Now())
	}
	if sig.Degrees != nil {
		degrees := *sig.Degrees
		if target, ok := g.normalizer.Target(g.rocket.Target, degrees); ok {
			g.rocket.Target = target
		}
		g.rocket.Rotation = input.Rotation(degrees)
	}
	g.publish()
}

// Frame runs due timers and then one frame of the loop, in fixed order:
// position integration, counter ticks, throttled snapshot sync and
// throttled collision detection.
func (g *Game) Frame() {
	now := g.clock.Now()
	dt := now.Sub(g.lastFrame)
	if dt < 0 {
		dt = 0
	}
	g.lastFrame = now

	g.sched.Run(now)

	// 1. Position integration runs in every phase.
	g.rocket.Integrate()
	g.tracker.Set(physics.RocketKey, g.rocket.Box())

	if g.Active() {
		// 2. Fast-path counters.
		g.round.advance(dt)

		// 3. Snapshot sync.
		if now.Sub(g.round.lastSync) >= config.SyncInterval {
			g.round.lastSync = now
			g.syncCounters()
		}

		// 4. Collision detection, then the state machine consumes its events.
		if now.Sub(g.round.lastCollision) >= config.CollisionInterval {
			g.round.lastCollision = now
			g.detectCollisions()
			g.applyEvents(now)
		}
	}

	g.publish()
}

// Tracker returns the geometry table shared with the renderer.
func (g *Game) Tracker() *physics.Tracker {
	return g.tracker
}

// Obstacles returns the live obstacles in spawn order.
func (g *Game) Obstacles() []*entity.Entity {
	return g.obstacles.All()
}

// Rewards returns the live rewards in spawn order.
func (g *Game) Rewards() []*entity.Entity {
	return g.rewards.All()
}

// syncTimers starts the round timers when the round becomes active and
// stops them when it stops being active.
func (g *Game) syncTimers(now time.Time) {
	switch {
	case g.Active() && len(g.timers) == 0:
		g.startTimers(now)
	case !g.Active() && len(g.timers) > 0:
		g.stopTimers()
	}
}

func (g *Game) stopTimers() {
	for _, id := range g.timers {
		g.sched.Cancel(id)
	}
	g.timers = g.timers[:0]
}
