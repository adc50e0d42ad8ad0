package services

import (
	"math"

	"dispatch/internal/core/domain/model/kernel"
)

// Progress is a straight-line proxy of how far a delivery has come.
type Progress struct {
	Percent             float64
	RemainingDistanceKm float64
	RemainingMinutes    int
}

// CalculateProgress compares the remaining straight-line distance to the
// dropoff with the pickup to dropoff distance recorded at creation.
// A zero-length delivery is always 100% complete.
func CalculateProgress(totalKm float64, current, dropoff kernel.Location, speedKmh float64) Progress {
	remaining := current.DistanceTo(dropoff)

	percent := 100.0
	if totalKm > 0 {
		percent = math.Max(0, math.Min(100, (totalKm-remaining)/totalKm*100))
	}

	return Progress{
		Percent:             percent,
		RemainingDistanceKm: remaining,
		RemainingMinutes:    int(kernel.TravelDuration(remaining, speedKmh).Minutes()),
	}
}
