package loop

import (
	"time"

	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
)

// detectCollisions compares the rocket against every entity with known
// geometry and queues what it finds. Entities without geometry are skipped
// until the renderer has laid them out.
func (g *Game) detectCollisions() {
	rocket, ok := g.tracker.Get(physics.RocketKey)
	if !ok {
		return
	}

	for _, e := range g.obstacles.All() {
		box, ok := g.tracker.Get(e.Key)
		if !ok {
			continue
		}
		if physics.InsetOverlaps(box, config.ObstacleMargin, rocket) {
			g.queue.push(CollisionEvent{Key: e.Key})
		} else if physics.NearMiss(box, rocket, config.NearMissBand, config.NearMissDistance) {
			g.queue.push(NearMissEvent{Key: e.Key})
		}
	}

	for _, e := range g.rewards.All() {
		if e.Collected {
			continue
		}
		box, ok := g.tracker.Get(e.Key)
		if !ok {
			continue
		}
		if physics.InsetOverlaps(box, config.RewardMargin, rocket) {
			g.queue.push(CollectEvent{Key: e.Key, Rare: e.Rare})
		}
	}
}

// applyEvents runs queued events through the round state machine.
func (g *Game) applyEvents(now time.Time) {
	for _, ev := range g.queue.drain() {
		// A collision can end the round; later events of the batch are void.
		if g.match.Phase != PhasePlaying {
			return
		}
		switch e := ev.(type) {
		case CollisionEvent:
			g.onCollision(now, e)
		case CollectEvent:
			g.onCollect(e)
		case NearMissEvent:
			g.onNearMiss(now)
		}
	}
}

func (g *Game) onCollision(now time.Time, e CollisionEvent) {
	if g.round.Invincible() {
		return
	}
	g.round.Lives--
	g.round.invincibleLeft = config.InvincibilityPeriod
	g.obstacles.Remove(e.Key)
	g.fx.Play(Cue{Kind: CueCollision})

	if g.round.Lives <= 0 {
		g.round.Lives = 0
		g.gameOver(now)
	}
}

func (g *Game) onCollect(e CollectEvent) {
	if !g.rewards.MarkCollected(e.Key) {
		return
	}
	if e.Rare {
		g.round.Points += config.RarePoints
		g.fx.Play(Cue{Kind: CueCollectRare})
		return
	}
	g.round.Points += config.RewardPoints
	g.fx.Play(Cue{Kind: CueCollect})
}

func (g *Game) onNearMiss(now time.Time) {
	if !g.lastNearMiss.IsZero() && now.Sub(g.lastNearMiss) < config.NearMissCooldown {
		return
	}
	g.lastNearMiss = now
	g.fx.Play(Cue{Kind: CueNearMiss})
}
