package services

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ETASource tells whether an estimate came from the routing provider.
type ETASource string

const (
	ETASourceRouting  ETASource = "routing"
	ETASourceFallback ETASource = "fallback"
)

// Route is what a routing provider answers for one leg.
type Route struct {
	DistanceKm float64
	Duration   time.Duration
}

// Router is the optional road-network provider.
type Router interface {
	Route(ctx context.Context, origin, destination kernel.Location) (Route, error)
}

// ETA is an arrival estimate.
type ETA struct {
	At         time.Time
	Duration   time.Duration
	DistanceKm float64
	Source     ETASource
}

// ETAEstimator computes arrival times. It never fails: when the router is
// missing, slow or broken, the straight-line distance at the average speed is used.
type ETAEstimator struct {
	router   Router
	speedKmh float64
	timeout  time.Duration
}

// NewETAEstimator accepts a nil router. A non-positive speed means kernel.DefaultAverageSpeedKmh.
func NewETAEstimator(router Router, speedKmh float64, timeout time.Duration) ETAEstimator {
	if speedKmh <= 0 {
		speedKmh = kernel.DefaultAverageSpeedKmh
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return ETAEstimator{router: router, speedKmh: speedKmh, timeout: timeout}
}

// SpeedKmh returns the fallback average speed.
func (e ETAEstimator) SpeedKmh() float64 {
	return e.speedKmh
}

// Estimate returns the arrival time at the last of targets starting from
// current and visiting targets in order.
func (e ETAEstimator) Estimate(ctx context.Context, current kernel.Location, targets []kernel.Location, now time.Time) ETA {
	if len(targets) == 0 {
		return ETA{At: now, Source: ETASourceFallback}
	}

	if e.router != nil {
		if eta, err := e.routed(ctx, current, targets, now); err == nil {
			return eta
		}
	}

	return e.Fallback(current, targets, now)
}

// Fallback is the straight-line estimate: ceil(distanceKm / speed * 60) minutes after now.
func (e ETAEstimator) Fallback(current kernel.Location, targets []kernel.Location, now time.Time) ETA {
	km := 0.0
	from := current
	for _, to := range targets {
		km += from.DistanceTo(to)
		from = to
	}

	d := kernel.TravelDuration(km, e.speedKmh)
	return ETA{At: now.Add(d), Duration: d, DistanceKm: km, Source: ETASourceFallback}
}

var errEmptyRoute = errors.New("routing provider returned an empty route")

func (e ETAEstimator) routed(ctx context.Context, current kernel.Location, targets []kernel.Location, now time.Time) (ETA, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var total Route
	from := current
	for _, to := range targets {
		leg, err := e.router.Route(ctx, from, to)
		if err != nil {
			return ETA{}, err
		}
		if leg.Duration < 0 || (leg.Duration == 0 && from.DistanceTo(to) > 0.05) {
			return ETA{}, errEmptyRoute
		}
		total.DistanceKm += leg.DistanceKm
		total.Duration += leg.Duration
		from = to
	}

	return ETA{
		At:         now.Add(total.Duration),
		Duration:   total.Duration,
		DistanceKm: total.DistanceKm,
		Source:     ETASourceRouting,
	}, nil
}
