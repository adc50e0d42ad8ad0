package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

var testPickup = kernel.MustNewLocation(0, 0)

// kmNorth returns a point distanceKm north of the test pickup.
func kmNorth(distanceKm float64) kernel.Location {
	return kernel.MustNewLocation(distanceKm/(kernel.EarthRadiusKm*math.Pi/180), 0)
}

type driverOpts struct {
	distanceKm      float64
	rating          float64
	deliveries      int
	minutesAgo      float64
	available       bool
	verified        bool
	active          bool
	withoutLocation bool
}

func eligible(distanceKm, rating float64, deliveries int, minutesAgo float64) driverOpts {
	return driverOpts{
		distanceKm: distanceKm,
		rating:     rating,
		deliveries: deliveries,
		minutesAgo: minutesAgo,
		available:  true,
		verified:   true,
		active:     true,
	}
}

func newTestDriver(t *testing.T, o driverOpts) *driver.Driver {
	t.Helper()

	s := driver.Snapshot{
		ID:              kernel.NewUUID(),
		AccountID:       "account-" + kernel.NewUUID().String(),
		Name:            "Test Driver",
		Available:       o.available,
		Verified:        o.verified,
		Active:          o.active,
		Rating:          o.rating,
		RatingsCount:    1,
		TotalDeliveries: o.deliveries,
		CreatedAt:       testNow.Add(-24 * time.Hour),
		UpdatedAt:       testNow,
	}
	if !o.withoutLocation {
		loc := kmNorth(o.distanceKm)
		seen := testNow.Add(-time.Duration(o.minutesAgo * float64(time.Minute)))
		s.Location = &loc
		s.LastLocationUpdate = &seen
	}

	d, err := driver.Restore(s)
	require.NoError(t, err)
	return d
}

func TestDriverAssigner_Score(t *testing.T) {
	assigner := NewDriverAssigner(DefaultAssignmentConfig())

	t.Run("experienced well rated driver", func(t *testing.T) {
		a := newTestDriver(t, eligible(2, 4.5, 500, 1))

		s := assigner.Score(a, 2, testNow)

		assert.InDelta(t, 32, s.Proximity, 1e-6)
		assert.InDelta(t, 27, s.Rating, 1e-6)
		assert.InDelta(t, 10, s.Experience, 1e-6)
		assert.InDelta(t, 9.6667, s.Recency, 1e-4)
		assert.InDelta(t, 78.6667, s.Total, 1e-4)
	})

	t.Run("close but stale newcomer", func(t *testing.T) {
		b := newTestDriver(t, eligible(1, 3.0, 50, 25))

		s := assigner.Score(b, 1, testNow)

		assert.InDelta(t, 36, s.Proximity, 1e-6)
		assert.InDelta(t, 18, s.Rating, 1e-6)
		assert.InDelta(t, 1, s.Experience, 1e-6)
		assert.InDelta(t, 1.6667, s.Recency, 1e-4)
		assert.InDelta(t, 56.6667, s.Total, 1e-4)
	})

	t.Run("components saturate", func(t *testing.T) {
		d := newTestDriver(t, eligible(0, 5, 5000, 0))

		s := assigner.Score(d, 0, testNow)

		assert.InDelta(t, 100, s.Total, 1e-9)
	})

	t.Run("location older than the window earns no recency", func(t *testing.T) {
		d := newTestDriver(t, eligible(5, 5, 0, 45))

		s := assigner.Score(d, 5, testNow)

		assert.Zero(t, s.Recency)
	})
}

func TestDriverAssigner_Assign(t *testing.T) {
	assigner := NewDriverAssigner(DefaultAssignmentConfig())

	t.Run("higher score beats shorter distance", func(t *testing.T) {
		a := newTestDriver(t, eligible(2, 4.5, 500, 1))
		b := newTestDriver(t, eligible(1, 3.0, 50, 25))

		result, err := assigner.Assign(testPickup, []*driver.Driver{b, a}, nil, testNow)

		require.NoError(t, err)
		assert.Equal(t, a.ID(), result.Winner.Driver.ID())
		assert.InDelta(t, 2, result.Winner.DistanceKm, 1e-6)
		require.Len(t, result.Alternatives, 1)
		assert.Equal(t, b.ID(), result.Alternatives[0].Driver.ID())
	})

	t.Run("ineligible and distant drivers are filtered", func(t *testing.T) {
		busy := eligible(1, 5, 100, 0)
		busy.available = false
		unverified := eligible(1, 5, 100, 0)
		unverified.verified = false
		offShift := eligible(1, 5, 100, 0)
		offShift.active = false
		lost := eligible(1, 5, 100, 0)
		lost.withoutLocation = true

		drivers := []*driver.Driver{
			newTestDriver(t, busy),
			newTestDriver(t, unverified),
			newTestDriver(t, offShift),
			newTestDriver(t, lost),
			newTestDriver(t, eligible(10.5, 5, 100, 0)),
		}
		ok := newTestDriver(t, eligible(9.5, 1, 0, 29))

		result, err := assigner.Assign(testPickup, append(drivers, ok), nil, testNow)

		require.NoError(t, err)
		assert.Equal(t, ok.ID(), result.Winner.Driver.ID())
		assert.Empty(t, result.Alternatives)
	})

	t.Run("no drivers in radius", func(t *testing.T) {
		far := newTestDriver(t, eligible(12, 5, 100, 0))

		_, err := assigner.Assign(testPickup, []*driver.Driver{far}, nil, testNow)

		require.ErrorIs(t, err, ErrNoDriversInRadius)
		assert.ErrorIs(t, err, ErrNoEligibleDriver)
	})

	t.Run("empty pool", func(t *testing.T) {
		_, err := assigner.Assign(testPickup, nil, nil, testNow)

		assert.ErrorIs(t, err, ErrNoEligibleDriver)
	})

	t.Run("all candidates excluded", func(t *testing.T) {
		a := newTestDriver(t, eligible(2, 4.5, 500, 1))
		b := newTestDriver(t, eligible(1, 3.0, 50, 25))

		_, err := assigner.Assign(testPickup, []*driver.Driver{a, b}, []kernel.UUID{a.ID(), b.ID()}, testNow)

		require.ErrorIs(t, err, ErrAllCandidatesExcluded)
		assert.ErrorIs(t, err, ErrNoEligibleDriver)
	})

	t.Run("excluded winner falls through to the runner-up", func(t *testing.T) {
		a := newTestDriver(t, eligible(2, 4.5, 500, 1))
		b := newTestDriver(t, eligible(1, 3.0, 50, 25))

		result, err := assigner.Assign(testPickup, []*driver.Driver{a, b}, []kernel.UUID{a.ID()}, testNow)

		require.NoError(t, err)
		assert.Equal(t, b.ID(), result.Winner.Driver.ID())
	})

	t.Run("at most two alternatives", func(t *testing.T) {
		var drivers []*driver.Driver
		for i := range 5 {
			drivers = append(drivers, newTestDriver(t, eligible(float64(i+1), 4, 100, 0)))
		}

		result, err := assigner.Assign(testPickup, drivers, nil, testNow)

		require.NoError(t, err)
		assert.Equal(t, drivers[0].ID(), result.Winner.Driver.ID())
		require.Len(t, result.Alternatives, MaxAlternatives)
		assert.Equal(t, drivers[1].ID(), result.Alternatives[0].Driver.ID())
		assert.Equal(t, drivers[2].ID(), result.Alternatives[1].Driver.ID())
		assert.Len(t, result.Ranked(), 3)
	})

	t.Run("invalid pickup", func(t *testing.T) {
		_, err := assigner.Assign(kernel.Location{}, nil, nil, testNow)

		assert.Error(t, err)
	})
}

func TestDriverAssigner_Deterministic(t *testing.T) {
	assigner := NewDriverAssigner(DefaultAssignmentConfig())

	// Identical scores and distances: ties are broken by id.
	var drivers []*driver.Driver
	for range 6 {
		drivers = append(drivers, newTestDriver(t, eligible(3, 4, 100, 5)))
	}

	first, err := assigner.Assign(testPickup, drivers, nil, testNow)
	require.NoError(t, err)

	for i := range 20 {
		shuffled := make([]*driver.Driver, len(drivers))
		for j := range drivers {
			shuffled[j] = drivers[(j+i)%len(drivers)]
		}

		again, err := assigner.Assign(testPickup, shuffled, nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, first.Winner.Driver.ID(), again.Winner.Driver.ID())
		for k := range first.Alternatives {
			assert.Equal(t, first.Alternatives[k].Driver.ID(), again.Alternatives[k].Driver.ID())
		}
	}

	for _, d := range drivers {
		assert.False(t, d.ID().Less(first.Winner.Driver.ID()))
	}
}

func TestNewDriverAssigner_Defaults(t *testing.T) {
	a := NewDriverAssigner(AssignmentConfig{})

	assert.Equal(t, DefaultAssignmentConfig(), a.Config())
}
