// Package config centralizes all tunable game parameters.
package config

import "time"

// Viewport - the logical play area in pixels. Entities, the rocket and all
// margins below are expressed in this space; rendering scales it to fit the
// terminal.
const (
	DefaultViewWidth  = 1280
	DefaultViewHeight = 720
)

// Rocket
const (
	RocketWidth       = 32
	RocketHeight      = 64
	RocketBottomSpace = 160  // Distance from the viewport bottom to the rocket's bottom edge
	RocketMinX        = 20   // Leftmost target
	RocketRightMargin = 52   // Rightmost target is ViewWidth - RocketRightMargin
	TiltDivisor       = 6.0  // Degrees of tilt per pixel of target movement
	LerpSpeed         = 0.25 // Fraction of the remaining distance covered per frame
	LerpDeadZone      = 0.5  // No movement when closer than this to the target
)

// Entities
const (
	MaxObstacles = 12
	MaxRewards   = 10
	EntityTTL    = 10 * time.Second
	ObstacleSize = 80
	RewardSize   = 56
	RewardWidth  = 60 // Horizontal room a reward needs inside its spawn section
)

// Spawning
const (
	ObstacleSpawnInterval = 1000 * time.Millisecond
	ObstacleBaseCount     = 2
	ObstacleMaxCount      = 8
	ObstacleDistanceStep  = 150 // One more obstacle per spawn every this many distance units
	RewardWaveBaseDelay   = 1000 * time.Millisecond
	RewardWaveJitter      = 1000 * time.Millisecond
	RewardWaveMinCount    = 2
	RewardWaveExtraCount  = 3 // Wave size is RewardWaveMinCount + [0, RewardWaveExtraCount)
	RewardWaveRowGap      = 80
	RewardWaveMaxLead     = 100 // Rewards start up to this far above the viewport
	RareRewardChance      = 0.1
	ExpirySweepInterval   = 3000 * time.Millisecond
)

// Difficulty
const (
	FallSecondsMax      = 10
	FallSecondsMin      = 3
	FallDistanceStep    = 50 // Obstacles fall one second faster every this many distance units
	RewardFallSeconds   = 8
	FallTravelExtraRoom = 200 // Entities fall until this far past the viewport bottom
)

// Collision
const (
	CollisionInterval    = 50 * time.Millisecond
	ObstacleMargin       = 30
	RewardMargin         = 10
	NearMissBand         = 20
	NearMissDistance     = 80
	NearMissCooldown     = 500 * time.Millisecond
	InvincibilityPeriod  = 1500 * time.Millisecond
	PlayerBlinkFrequency = 10.0 // Hz
)

// Round
const (
	InitialLives      = 2
	RoundLength       = 60 // Seconds
	DistanceTick      = 250 * time.Millisecond
	CountdownInterval = time.Second
	CountdownWarnAt   = 10 // Seconds left when the countdown cue starts
	SyncInterval      = 2000 * time.Millisecond
	RewardPoints      = 10
	RarePoints        = 50
	DistanceWeight    = 0.3
	PointsWeight      = 0.7
	MaxPlayers        = 3
	LeaderboardSize   = 10
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Terminal rendering
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
	MaxNameLength = 16
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Controller link
const (
	HUDInterval     = 250 * time.Millisecond // Snapshot push rate to a paired controller
	PairingTokenTTL = 12 * time.Hour
)
