package loop

import (
	"time"

	"github.com/tomz197/meteordash/internal/loop/config"
)

// Round is the state of one player's turn. A fresh Round replaces the old one
// on every start, so nothing leaks between turns.
type Round struct {
	Lives    int
	TimeLeft int // Seconds

	// Fast-path counters, updated every frame and copied to the published
	// snapshot at the sync cadence.
	Points   int
	Distance int

	invincibleLeft time.Duration // Drains with active play only, like distance
	distanceAcc    time.Duration // Active play time not yet converted to distance
	lastCollision  time.Time     // Last collision check
	lastSync       time.Time     // Last snapshot sync
}

func newRound(now time.Time) *Round {
	return &Round{
		Lives:    config.InitialLives,
		TimeLeft: config.RoundLength,
		lastSync: now,
	}
}

// Invincible reports whether collisions are currently ignored.
func (r *Round) Invincible() bool {
	return r.invincibleLeft > 0
}

// InvincibleLeft returns the remaining invincibility.
func (r *Round) InvincibleLeft() time.Duration {
	return r.invincibleLeft
}

// advance converts dt of active play into distance, drains invincibility
// and reports whether the distance changed.
func (r *Round) advance(dt time.Duration) bool {
	r.invincibleLeft = max(r.invincibleLeft-dt, 0)
	r.distanceAcc += dt
	changed := false
	for r.distanceAcc >= config.DistanceTick {
		r.distanceAcc -= config.DistanceTick
		r.Distance++
		changed = true
	}
	return changed
}
