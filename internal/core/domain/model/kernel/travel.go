package kernel

import (
	"math"
	"time"
)

// DefaultAverageSpeedKmh is the urban average speed used for straight-line estimates.
const DefaultAverageSpeedKmh = 30.0

// TravelDuration estimates how long covering distanceKm takes at speedKmh,
// rounded up to a whole minute. Non-positive distances take zero time and a
// non-positive speed falls back to DefaultAverageSpeedKmh.
func TravelDuration(distanceKm, speedKmh float64) time.Duration {
	if distanceKm <= 0 || math.IsNaN(distanceKm) {
		return 0
	}
	if speedKmh <= 0 {
		speedKmh = DefaultAverageSpeedKmh
	}

	// the epsilon absorbs float noise such as 4.0000000001 minutes
	minutes := math.Ceil(distanceKm*60/speedKmh - 1e-9)
	return time.Duration(minutes) * time.Minute
}
