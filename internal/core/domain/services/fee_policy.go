package services

import "math"

// FeePolicy prices a delivery from its straight-line distance.
type FeePolicy struct {
	BaseFee    float64
	PerKm      float64
	MinimumFee float64
}

// DefaultFeePolicy charges 2.50 plus 1.00 per km, never less than 3.00.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{BaseFee: 2.5, PerKm: 1, MinimumFee: 3}
}

// Calculate returns the fee rounded to cents.
func (p FeePolicy) Calculate(distanceKm float64) float64 {
	fee := p.BaseFee + p.PerKm*math.Max(0, distanceKm)
	fee = math.Max(fee, p.MinimumFee)
	return math.Round(fee*100) / 100
}
