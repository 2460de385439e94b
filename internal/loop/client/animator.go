package client

import (
	"time"

	"github.com/tomz197/meteordash/internal/entity"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/object"
	"github.com/tomz197/meteordash/internal/physics"
)

// fall is the animation state of one entity.
type fall struct {
	elapsed  time.Duration // Time spent falling, paused time excluded
	duration time.Duration // Fixed when the entity is first seen
	meteor   *object.Meteor
}

// Animator moves falling entities down the viewport and reports their
// boxes to the tracker, where the collision engine picks them up. Each
// entity keeps the fall speed it was spawned with.
type Animator struct {
	tracker *physics.Tracker
	travel  float64 // Pixels an entity moves over its whole fall
	falls   map[string]*fall
	seen    map[string]bool
	last    time.Time
}

// NewAnimator creates an animator for a viewport of height viewH.
func NewAnimator(tracker *physics.Tracker, viewH float64) *Animator {
	return &Animator{
		tracker: tracker,
		travel:  viewH + config.FallTravelExtraRoom,
		falls:   make(map[string]*fall),
		seen:    make(map[string]bool),
	}
}

// Advance moves every entity to its position at now. Entities only fall
// while moving is set; paused frames still report boxes so nothing jumps
// when play resumes.
func (a *Animator) Advance(now time.Time, obstacles, rewards []*entity.Entity, fallSeconds int, moving bool) {
	var dt time.Duration
	if !a.last.IsZero() && moving {
		dt = now.Sub(a.last)
	}
	a.last = now

	clear(a.seen)
	obstacleFall := time.Duration(fallSeconds) * time.Second
	for _, e := range obstacles {
		a.step(e, obstacleFall, config.ObstacleSize, dt, now)
	}
	rewardFall := time.Duration(config.RewardFallSeconds) * time.Second
	for _, e := range rewards {
		a.step(e, rewardFall, config.RewardSize, dt, now)
	}

	// Entities the stores dropped are already gone from the tracker.
	for key := range a.falls {
		if !a.seen[key] {
			delete(a.falls, key)
		}
	}
}

func (a *Animator) step(e *entity.Entity, duration time.Duration, size float64, dt time.Duration, now time.Time) {
	a.seen[e.Key] = true
	f, ok := a.falls[e.Key]
	if !ok {
		f = &fall{duration: duration}
		if e.Kind == entity.KindObstacle {
			f.meteor = object.NewMeteor(e.Seq, e.Rotation, now)
		}
		a.falls[e.Key] = f
	}
	f.elapsed = min(f.elapsed+dt, f.duration)
	a.tracker.Set(e.Key, physics.RectAt(e.X, a.offset(e, f), size, size))
}

// offset returns the entity's top edge. Falling is linear, like a CSS
// translate animation.
func (a *Animator) offset(e *entity.Entity, f *fall) float64 {
	if f.duration <= 0 {
		return e.Y + a.travel
	}
	return e.Y + a.travel*float64(f.elapsed)/float64(f.duration)
}

// Meteor returns the sprite of an obstacle, or nil for unknown keys.
func (a *Animator) Meteor(key string) *object.Meteor {
	if f, ok := a.falls[key]; ok {
		return f.meteor
	}
	return nil
}

// Reset forgets every entity, e.g. when a new round starts.
func (a *Animator) Reset() {
	clear(a.falls)
	a.last = time.Time{}
}
