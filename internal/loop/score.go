package loop

import (
	"math"

	"github.com/tomz197/meteordash/internal/loop/config"
)

// Score weighs distance and points into the final score.
func Score(distance, points int) int {
	return int(math.Round(float64(distance)*config.DistanceWeight + float64(points)*config.PointsWeight))
}

// FallSeconds is how long an obstacle takes to cross the screen at the given
// distance. It shrinks as the run gets longer.
func FallSeconds(distance int) int {
	return max(config.FallSecondsMin, config.FallSecondsMax-distance/config.FallDistanceStep)
}

// ObstacleCount is how many obstacles one spawn tick adds at the given distance.
func ObstacleCount(distance int) int {
	return min(config.ObstacleMaxCount, config.ObstacleBaseCount+distance/config.ObstacleDistanceStep)
}
