package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// Score weights. They add up to 100.
const (
	ProximityWeight  = 40.0
	RatingWeight     = 30.0
	ExperienceWeight = 20.0
	RecencyWeight    = 10.0

	// MaxAlternatives is how many runner-ups are returned next to the winner.
	MaxAlternatives = 2

	scoreEpsilon = 1e-9
)

var (
	// ErrNoEligibleDriver is returned when the candidate pool is empty after filtering.
	ErrNoEligibleDriver = errors.New("no eligible driver")
	// ErrNoDriversInRadius refines ErrNoEligibleDriver: nobody is close enough.
	ErrNoDriversInRadius = fmt.Errorf("%w: no drivers within radius", ErrNoEligibleDriver)
	// ErrAllCandidatesExcluded refines ErrNoEligibleDriver: everyone nearby was excluded.
	ErrAllCandidatesExcluded = fmt.Errorf("%w: all candidates excluded", ErrNoEligibleDriver)
)

// AssignmentConfig holds the tunables of the scoring formula.
type AssignmentConfig struct {
	RadiusKm        float64
	ExperienceCap   int
	FreshnessWindow time.Duration
}

// DefaultAssignmentConfig returns radius 10 km, experience cap 1000 and a 30 minute window.
func DefaultAssignmentConfig() AssignmentConfig {
	return AssignmentConfig{
		RadiusKm:        10,
		ExperienceCap:   1000,
		FreshnessWindow: 30 * time.Minute,
	}
}

// ScoreBreakdown is a candidate's score split by component. Total is in [0, 100].
type ScoreBreakdown struct {
	Proximity  float64
	Rating     float64
	Experience float64
	Recency    float64
	Total      float64
}

// Candidate is a scored driver.
type Candidate struct {
	Driver     *driver.Driver
	DistanceKm float64
	Score      ScoreBreakdown
}

// Assignment is the outcome of a successful selection.
type Assignment struct {
	Winner       Candidate
	Alternatives []Candidate
}

// Ranked returns the winner followed by the alternatives.
func (a Assignment) Ranked() []Candidate {
	return append([]Candidate{a.Winner}, a.Alternatives...)
}

// DriverAssigner selects a driver for a pickup point.
//
// Candidate pool: eligible drivers (available, verified, on shift, location
// known) whose great-circle distance to the pickup is within the radius, minus
// excluded ids. Ranking: total score desc, then distance asc, then the oldest
// location update, then id. The ranking has no randomness: the same input
// always yields the same order.
//
// Example:
//
//	assigner := services.NewDriverAssigner(services.DefaultAssignmentConfig())
//	result, err := assigner.Assign(d.Pickup(), nearbyDrivers, d.DeclinedDriverIDs(), now)
//	if errors.Is(err, services.ErrNoEligibleDriver) {
//	    // retry later
//	}
//	claim(result.Winner.Driver)
type DriverAssigner struct {
	cfg AssignmentConfig
}

// NewDriverAssigner fills zero fields of cfg with defaults.
func NewDriverAssigner(cfg AssignmentConfig) DriverAssigner {
	def := DefaultAssignmentConfig()
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = def.RadiusKm
	}
	if cfg.ExperienceCap <= 0 {
		cfg.ExperienceCap = def.ExperienceCap
	}
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = def.FreshnessWindow
	}
	return DriverAssigner{cfg: cfg}
}

// Config returns the effective configuration.
func (a DriverAssigner) Config() AssignmentConfig {
	return a.cfg
}

// Assign ranks drivers for pickup. It has no side effects.
//
// Returns:
//   - Assignment with the winner and up to MaxAlternatives runner-ups
//   - ErrNoDriversInRadius when no eligible driver is within the radius
//   - ErrAllCandidatesExcluded when every driver within the radius is excluded
func (a DriverAssigner) Assign(
	pickup kernel.Location,
	drivers []*driver.Driver,
	excluded []kernel.UUID,
	now time.Time,
) (Assignment, error) {
	if err := pickup.Validate(); err != nil {
		return Assignment{}, err
	}

	inRadius := 0
	candidates := make([]Candidate, 0, len(drivers))
	for _, d := range drivers {
		if d.Validate() != nil || !d.IsEligible() {
			continue
		}

		distance := d.Location().DistanceTo(pickup)
		if distance > a.cfg.RadiusKm {
			continue
		}
		inRadius++

		if slices.ContainsFunc(excluded, d.ID().IsEqual) {
			continue
		}

		candidates = append(candidates, Candidate{
			Driver:     d,
			DistanceKm: distance,
			Score:      a.Score(d, distance, now),
		})
	}

	if inRadius == 0 {
		return Assignment{}, ErrNoDriversInRadius
	}
	if len(candidates) == 0 {
		return Assignment{}, ErrAllCandidatesExcluded
	}

	slices.SortStableFunc(candidates, compareCandidates)

	alternatives := candidates[1:]
	if len(alternatives) > MaxAlternatives {
		alternatives = alternatives[:MaxAlternatives]
	}

	return Assignment{
		Winner:       candidates[0],
		Alternatives: slices.Clone(alternatives),
	}, nil
}

// Score computes the weighted score of d at distanceKm from the pickup.
func (a DriverAssigner) Score(d *driver.Driver, distanceKm float64, now time.Time) ScoreBreakdown {
	var s ScoreBreakdown

	s.Proximity = math.Max(0, (a.cfg.RadiusKm-distanceKm)/a.cfg.RadiusKm) * ProximityWeight

	rating := math.Min(driver.MaxRating, math.Max(driver.MinRating, d.Rating()))
	s.Rating = rating / driver.MaxRating * RatingWeight

	s.Experience = math.Min(float64(d.TotalDeliveries())/float64(a.cfg.ExperienceCap), 1) * ExperienceWeight

	window := a.cfg.FreshnessWindow.Minutes()
	if minutes := d.MinutesSinceLocationUpdate(now); !math.IsInf(minutes, 1) {
		s.Recency = math.Max(0, (window-minutes)/window) * RecencyWeight
	}

	s.Total = s.Proximity + s.Rating + s.Experience + s.Recency
	return s
}

func compareCandidates(x, y Candidate) int {
	if diff := x.Score.Total - y.Score.Total; math.Abs(diff) > scoreEpsilon {
		if diff > 0 {
			return -1
		}
		return 1
	}
	if diff := x.DistanceKm - y.DistanceKm; math.Abs(diff) > scoreEpsilon {
		if diff < 0 {
			return -1
		}
		return 1
	}

	xt, yt := x.Driver.LastLocationUpdate(), y.Driver.LastLocationUpdate()
	if xt != nil && yt != nil && !xt.Equal(*yt) {
		if xt.Before(*yt) {
			return -1
		}
		return 1
	}

	switch {
	case x.Driver.ID().Less(y.Driver.ID()):
		return -1
	case y.Driver.ID().Less(x.Driver.ID()):
		return 1
	default:
		return 0
	}
}
