// Package entity holds the falling objects of a round: obstacles to dodge
// and rewards to collect.
package entity

import "time"

// Kind distinguishes obstacles from rewards.
type Kind int

const (
	KindObstacle Kind = iota // Meteor, costs a life on contact
	KindReward               // Star, awards points on contact
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindReward:
		return "reward"
	default:
		return "unknown"
	}
}

// keyPrefix returns the prefix used for keys of this kind.
func (k Kind) keyPrefix() string {
	if k == KindReward {
		return "r-"
	}
	return "b-"
}

// Entity is a single falling object.
type Entity struct {
	Key       string    // Unique for the lifetime of the store, never reused
	Kind      Kind      // Obstacle or reward
	Seq       uint64    // Spawn order within the store
	SpawnTime time.Time // Monotonic spawn instant used for expiry

	// Spawn offsets in viewport pixels. Y is negative for objects that start
	// above the visible area.
	X, Y float64

	Rotation  float64 // Cosmetic rotation in degrees
	Rare      bool    // Reward worth the rare bonus
	Collected bool    // Reward already picked up
}

// Placement describes where a new entity appears.
type Placement struct {
	X, Y     float64
	Rotation float64
	Rare     bool
}

// Age returns how long the entity has existed at now.
func (e *Entity) Age(now time.Time) time.Duration {
	return now.Sub(e.SpawnTime)
}
