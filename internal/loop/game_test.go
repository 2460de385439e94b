package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/meteordash/internal/clock"
	"github.com/tomz197/meteordash/internal/entity"
	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
	"github.com/tomz197/meteordash/internal/storage"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fxRecorder struct {
	cues []Cue
}

func (r *fxRecorder) Play(c Cue) { r.cues = append(r.cues, c) }

func (r *fxRecorder) count(k CueKind) int {
	n := 0
	for _, c := range r.cues {
		if c.Kind == k {
			n++
		}
	}
	return n
}

type harness struct {
	g   *Game
	clk *clock.Manual
	fx  *fxRecorder
	kv  *storage.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	kv := storage.NewMemory()
	h := newHarnessWithRecords(t, storage.NewRecords(kv, nil))
	h.kv = kv
	return h
}

// newHarnessWithRecords builds a game on records shared with other games,
// the way SSH sessions share one store.
func newHarnessWithRecords(t *testing.T, records *storage.Records) *harness {
	t.Helper()
	h := &harness{
		clk: clock.NewManual(start),
		fx:  &fxRecorder{},
	}
	h.g = New(Options{
		Clock:   h.clk,
		Rand:    rand.New(rand.NewSource(1)),
		FX:      h.fx,
		Records: records,
	})
	t.Cleanup(h.g.Close)
	return h
}

// run advances the clock in frame-sized steps for total, calling Frame
// after each step.
func (h *harness) run(total, step time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		h.clk.Advance(step)
		h.g.Frame()
	}
}

func (h *harness) startSolo(t *testing.T) {
	t.Helper()
	if err := h.g.StartSolo(); err != nil {
		t.Fatalf("StartSolo: %v", err)
	}
	h.g.Apply(input.Detected(true))
}

// hit places an obstacle squarely on the rocket.
func (h *harness) hit() string {
	e := h.g.obstacles.Insert(h.clk.Now(), entity.Placement{})[0]
	box := h.g.rocket.Box()
	h.g.tracker.Set(e.Key, physics.Rect{Left: box.Left - 40, Top: box.Top - 40, Right: box.Right + 40, Bottom: box.Bottom + 40})
	return e.Key
}

func TestScoreAndDifficulty(t *testing.T) {
	if got := Score(100, 80); got != 86 {
		t.Errorf("Score(100, 80) = %d, want 86", got)
	}
	for _, tt := range []struct{ distance, want int }{{0, 10}, {49, 10}, {250, 5}, {349, 4}, {1000, 3}} {
		if got := FallSeconds(tt.distance); got != tt.want {
			t.Errorf("FallSeconds(%d) = %d, want %d", tt.distance, got, tt.want)
		}
	}
	for _, tt := range []struct{ distance, want int }{{0, 2}, {149, 2}, {150, 3}, {900, 8}, {5000, 8}} {
		if got := ObstacleCount(tt.distance); got != tt.want {
			t.Errorf("ObstacleCount(%d) = %d, want %d", tt.distance, got, tt.want)
		}
	}
}

func TestNothingHappensWithoutDetection(t *testing.T) {
	h := newHarness(t)
	if err := h.g.StartSolo(); err != nil {
		t.Fatal(err)
	}
	h.run(3*time.Second, 50*time.Millisecond)

	if h.g.obstacles.Len() != 0 || h.g.rewards.Len() != 0 {
		t.Errorf("spawned while undetected: %d obstacles, %d rewards", h.g.obstacles.Len(), h.g.rewards.Len())
	}
	if h.g.round.Distance != 0 || h.g.round.TimeLeft != config.RoundLength {
		t.Errorf("round progressed while undetected: distance %d, time %d", h.g.round.Distance, h.g.round.TimeLeft)
	}
	if h.g.sched.Len() != 0 {
		t.Errorf("%d timers scheduled while undetected", h.g.sched.Len())
	}

	h.g.Apply(input.Detected(true))
	h.run(time.Second, 50*time.Millisecond)
	if got := h.g.obstacles.Len(); got != 2 {
		t.Errorf("obstacles after first spawn tick = %d, want 2", got)
	}
}

func TestDetectionLossPausesRound(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)
	h.run(2*time.Second, 50*time.Millisecond)

	h.g.Apply(input.Detected(false))
	if h.g.sched.Len() != 0 {
		t.Fatalf("timers still scheduled after losing detection: %d", h.g.sched.Len())
	}
	obstacles, distance, timeLeft := h.g.obstacles.Len(), h.g.round.Distance, h.g.round.TimeLeft
	h.run(5*time.Second, 50*time.Millisecond)

	if h.g.obstacles.Len() != obstacles || h.g.round.Distance != distance || h.g.round.TimeLeft != timeLeft {
		t.Error("round changed while paused")
	}
	if h.fx.count(CuePause) != 1 {
		t.Errorf("pause cues = %d, want 1", h.fx.count(CuePause))
	}
	if snap := h.g.Snapshot(); snap.IsDetected || snap.Phase != PhasePlaying {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)
	h.g.round.Distance = 2000 // Max spawn rate

	for i := 0; i < 400; i++ {
		h.clk.Advance(50 * time.Millisecond)
		h.g.Frame()
		if h.g.obstacles.Len() > config.MaxObstacles {
			t.Fatalf("obstacles = %d at frame %d", h.g.obstacles.Len(), i)
		}
		if h.g.rewards.Len() > config.MaxRewards {
			t.Fatalf("rewards = %d at frame %d", h.g.rewards.Len(), i)
		}
	}
	if h.g.obstacles.Len() == 0 || h.g.rewards.Len() == 0 {
		t.Error("expected entities to have spawned")
	}
}

func TestDistanceTicksAndThrottledSync(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	h.run(time.Second, 10*time.Millisecond)
	if h.g.round.Distance != 4 {
		t.Errorf("live distance = %d, want 4", h.g.round.Distance)
	}
	if got := h.g.Snapshot().Distance; got != 0 {
		t.Errorf("published distance before sync = %d, want 0", got)
	}

	h.run(time.Second, 10*time.Millisecond)
	if got := h.g.Snapshot().Distance; got != 8 {
		t.Errorf("published distance after sync = %d, want 8", got)
	}
}

func TestCollisionCostsOneLifeThenInvincible(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	first := h.hit()
	h.hit()
	h.clk.Advance(16 * time.Millisecond)
	h.g.Frame()

	if h.g.round.Lives != config.InitialLives-1 {
		t.Fatalf("lives = %d after simultaneous hits, want %d", h.g.round.Lives, config.InitialLives-1)
	}
	if h.fx.count(CueCollision) != 1 {
		t.Errorf("collision cues = %d, want 1", h.fx.count(CueCollision))
	}
	if _, ok := h.g.obstacles.Get(first); ok {
		t.Error("obstacle that cost a life should be removed")
	}
	if _, ok := h.g.tracker.Get(first); ok {
		t.Error("geometry of removed obstacle should be purged")
	}

	h.run(time.Second, 50*time.Millisecond)
	if h.g.round.Lives != 1 {
		t.Fatalf("lost a life while invincible")
	}
	if !h.g.Snapshot().IsDetected || h.g.Snapshot().InvincibleLeft <= 0 {
		t.Error("snapshot should report invincibility")
	}

	h.run(600*time.Millisecond, 50*time.Millisecond)
	if h.g.round.Lives != 0 || h.g.match.Phase != PhaseGameOver {
		t.Fatalf("lives = %d, phase = %v; want 0, gameover", h.g.round.Lives, h.g.match.Phase)
	}
	if h.g.sched.Len() != 0 {
		t.Errorf("%d timers survived game over", h.g.sched.Len())
	}

	snap := h.g.Snapshot()
	if len(snap.PlayerResults) != 1 {
		t.Fatalf("results = %v, want one", snap.PlayerResults)
	}
	res := snap.PlayerResults[0]
	if res.Distance != h.g.round.Distance || res.Points != h.g.round.Points {
		t.Errorf("result %+v does not match final counters", res)
	}
	if snap.Distance != res.Distance {
		t.Errorf("game over should force a sync: snapshot distance %d, result %d", snap.Distance, res.Distance)
	}
}

func TestInvincibilityHoldsWhilePaused(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	h.hit()
	h.clk.Advance(16 * time.Millisecond)
	h.g.Frame()
	if h.g.round.Lives != config.InitialLives-1 {
		t.Fatalf("lives = %d after hit", h.g.round.Lives)
	}

	h.g.Apply(input.Detected(false))
	h.run(5*time.Second, 50*time.Millisecond)
	if got := h.g.Snapshot().InvincibleLeft; got != config.InvincibilityPeriod {
		t.Errorf("invincibility left after pause = %v, want %v", got, config.InvincibilityPeriod)
	}

	h.g.Apply(input.Detected(true))
	h.hit()
	h.run(time.Second, 50*time.Millisecond)
	if h.g.round.Lives != config.InitialLives-1 {
		t.Errorf("lives = %d; invincibility ran out during the pause", h.g.round.Lives)
	}
	if left := h.g.Snapshot().InvincibleLeft; left != 500*time.Millisecond {
		t.Errorf("invincibility left = %v, want 500ms", left)
	}
}

func TestCollectRewards(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	box := h.g.rocket.Box()
	normal := h.g.rewards.Insert(h.clk.Now(), entity.Placement{})[0]
	rare := h.g.rewards.Insert(h.clk.Now(), entity.Placement{Rare: true})[0]
	h.g.tracker.Set(normal.Key, box)
	h.g.tracker.Set(rare.Key, box)

	h.run(200*time.Millisecond, 50*time.Millisecond)

	if h.g.round.Points != config.RewardPoints+config.RarePoints {
		t.Errorf("points = %d, want %d", h.g.round.Points, config.RewardPoints+config.RarePoints)
	}
	if !normal.Collected || !rare.Collected {
		t.Error("rewards not marked collected")
	}
	if h.fx.count(CueCollect) != 1 || h.fx.count(CueCollectRare) != 1 {
		t.Errorf("collect cues = %d/%d, want 1/1", h.fx.count(CueCollect), h.fx.count(CueCollectRare))
	}
	if h.g.round.Lives != config.InitialLives {
		t.Error("collecting must not cost lives")
	}
}

func TestNearMissRateLimited(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	box := h.g.rocket.Box()
	e := h.g.obstacles.Insert(h.clk.Now(), entity.Placement{})[0]
	// Beside the rocket, same height, centers 60px apart.
	h.g.tracker.Set(e.Key, physics.RectAt(box.CenterX()+60-40, box.Top, 80, 80))

	h.run(400*time.Millisecond, 50*time.Millisecond)
	if got := h.fx.count(CueNearMiss); got != 1 {
		t.Errorf("near-miss cues in 400ms = %d, want 1", got)
	}
	h.run(200*time.Millisecond, 50*time.Millisecond)
	if got := h.fx.count(CueNearMiss); got != 2 {
		t.Errorf("near-miss cues in 600ms = %d, want 2", got)
	}
	if h.g.round.Lives != config.InitialLives {
		t.Error("near miss cost a life")
	}
}

func TestExpiredEntitiesAreSweptWithGeometry(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	// Spawned 8s ago, so the first sweep at 3s finds it past the TTL.
	e := h.g.obstacles.Insert(h.clk.Now().Add(-8*time.Second), entity.Placement{})[0]
	h.g.tracker.Set(e.Key, physics.RectAt(0, 0, 80, 80))

	h.run(2900*time.Millisecond, 50*time.Millisecond)
	if _, ok := h.g.obstacles.Get(e.Key); !ok {
		t.Fatal("entity removed before the sweep")
	}
	h.run(200*time.Millisecond, 50*time.Millisecond)
	if _, ok := h.g.obstacles.Get(e.Key); ok {
		t.Error("entity survived the sweep after TTL")
	}
	if _, ok := h.g.tracker.Get(e.Key); ok {
		t.Error("geometry survived the entity")
	}
}

func TestRocketEasesToTarget(t *testing.T) {
	h := newHarness(t)
	startX := h.g.rocket.Current

	h.g.Apply(input.Tilt(-30))
	if h.g.rocket.Target != startX+5 {
		t.Fatalf("target = %v, want %v", h.g.rocket.Target, startX+5)
	}
	if h.g.rocket.Rotation != -35 {
		t.Errorf("rotation = %v, want -35", h.g.rocket.Rotation)
	}

	h.clk.Advance(16 * time.Millisecond)
	h.g.Frame()
	if got := h.g.rocket.Current; got != startX+1.25 {
		t.Errorf("current after one frame = %v, want %v", got, startX+1.25)
	}

	h.run(time.Second, 16*time.Millisecond)
	if diff := h.g.rocket.Target - h.g.rocket.Current; diff > config.LerpDeadZone || diff < 0 {
		t.Errorf("rocket did not settle: diff %v", diff)
	}
	if got, _ := h.g.tracker.Get(physics.RocketKey); got.Left != h.g.rocket.Current {
		t.Error("rocket geometry not refreshed")
	}
}

func TestTiltOutOfRangeIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.g.rocket.Target = config.RocketMinX + 1
	h.g.Apply(input.Tilt(30))
	if h.g.rocket.Target != config.RocketMinX+1 {
		t.Errorf("target moved out of range: %v", h.g.rocket.Target)
	}
}

func TestRoundTimesOut(t *testing.T) {
	h := newHarness(t)
	h.startSolo(t)

	h.run(59*time.Second, 50*time.Millisecond)
	if h.g.match.Phase != PhasePlaying {
		t.Fatalf("phase = %v before the minute is up", h.g.match.Phase)
	}
	if got := h.fx.count(CueCountdown); got != config.CountdownWarnAt {
		t.Errorf("countdown cues = %d, want %d", got, config.CountdownWarnAt)
	}

	h.run(time.Second, 50*time.Millisecond)
	snap := h.g.Snapshot()
	if snap.Phase != PhaseGameOver || snap.TimeLeft != 0 {
		t.Fatalf("phase = %v, time = %d", snap.Phase, snap.TimeLeft)
	}
	// The final countdown tick ends the round before that frame's distance tick.
	if snap.Distance != 239 {
		t.Errorf("distance = %d, want 239", snap.Distance)
	}
	if want := Score(239, 0); snap.HighScore != want {
		t.Errorf("high score = %d, want %d", snap.HighScore, want)
	}
	if v, _ := h.kv.Get(storage.HighScoreKey); v != "72" {
		t.Errorf("persisted high score = %q, want 72", v)
	}
	if len(snap.Leaderboard) != 1 || snap.Leaderboard[0].Name != "Player 1" {
		t.Errorf("leaderboard = %v", snap.Leaderboard)
	}
}

func TestPanickingFXIsContained(t *testing.T) {
	h := newHarness(t)
	h.g.fx = newSafeFX(FXFunc(func(Cue) { panic("speaker unplugged") }), nil)
	h.startSolo(t)
	h.hit()
	h.clk.Advance(16 * time.Millisecond)
	h.g.Frame()
	if h.g.round.Lives != config.InitialLives-1 {
		t.Error("state machine stalled by FX panic")
	}
}
