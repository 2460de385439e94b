package loop

import (
	"time"

	"github.com/tomz197/meteordash/internal/entity"
	"github.com/tomz197/meteordash/internal/loop/config"
)

// startTimers schedules the round's periodic work: obstacle spawns, expiry
// sweeps, the countdown and reward waves on a jittered delay.
func (g *Game) startTimers(now time.Time) {
	g.timers = append(g.timers,
		g.sched.Every(now, config.ObstacleSpawnInterval, g.spawnObstacles),
		g.sched.Every(now, config.ExpirySweepInterval, g.evictExpired),
		g.sched.Every(now, config.CountdownInterval, g.countdown),
		g.sched.Repeat(now, g.rewardWaveDelay, g.spawnRewardWave),
	)
}

func (g *Game) spawnObstacles(at time.Time) {
	n := ObstacleCount(g.round.Distance)
	placements := make([]entity.Placement, n)
	for i := range placements {
		placements[i] = entity.Placement{
			X:        g.rng.Float64() * (g.viewW - config.ObstacleSize),
			Y:        -g.rng.Float64()*100 - 100,
			Rotation: g.rng.Float64() * 360,
		}
	}
	g.obstacles.Insert(at, placements...)
	g.obstacles.EnforceCapacity()
}

func (g *Game) rewardWaveDelay() time.Duration {
	return config.RewardWaveBaseDelay + time.Duration(g.rng.Float64()*float64(config.RewardWaveJitter))
}

func (g *Game) spawnRewardWave(at time.Time) {
	g.rewards.Insert(at, RewardWave(g.rng.Float64, g.viewW)...)
	g.rewards.EnforceCapacity()
}

// RewardWave lays out one wave of rewards across a viewport of width w,
// one per equal horizontal section, staggered upwards so they arrive one
// after another. rnd returns values in [0, 1).
func RewardWave(rnd func() float64, w float64) []entity.Placement {
	count := config.RewardWaveMinCount + int(rnd()*config.RewardWaveExtraCount)
	section := w / float64(count)
	out := make([]entity.Placement, count)
	for i := range out {
		out[i] = entity.Placement{
			X:    section*float64(i) + rnd()*(section-config.RewardWidth),
			Y:    -rnd()*config.RewardWaveMaxLead - float64(i*config.RewardWaveRowGap),
			Rare: rnd() < config.RareRewardChance,
		}
	}
	return out
}

func (g *Game) evictExpired(at time.Time) {
	g.obstacles.EvictExpired(at)
	g.rewards.EvictExpired(at)
}

func (g *Game) countdown(at time.Time) {
	g.round.TimeLeft--
	if g.round.TimeLeft <= 0 {
		g.round.TimeLeft = 0
		g.gameOver(at)
		return
	}
	if g.round.TimeLeft <= config.CountdownWarnAt {
		g.fx.Play(Cue{Kind: CueCountdown, SecondsLeft: g.round.TimeLeft})
	}
}
