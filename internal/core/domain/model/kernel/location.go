package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound valid latitudes in degrees.
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
	EarthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is a WGS84 point expressed in decimal degrees.
//
// Location is an immutable value object; coordinates are checked once at
// construction and every method assumes they are in range.
//
// Example:
//
//	pickup, err := kernel.NewLocation(55.7558, 37.6173)
//	if err != nil {
//	    return err // errs.ErrValueIsOutOfRange
//	}
//	km := pickup.DistanceTo(dropoff)
type Location struct { //nolint:recvcheck // setters use pointer receivers
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewLocation validates both coordinates and reports every violation at once.
//
// Returns:
//   - Location: the validated point
//   - error: errs.ValueIsOutOfRangeError for latitude outside [-90, 90] and/or
//     longitude outside [-180, 180]; NaN is rejected as well
func NewLocation(latitude, longitude float64) (Location, error) {
	loc := Location{guard: guard.NewConstructorGuard()}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is NewLocation for constants and tests. It panics on invalid input.
func MustNewLocation(latitude, longitude float64) Location {
	loc, err := NewLocation(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate reports whether the location was created through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// IsEqual compares coordinates exactly.
func (l Location) IsEqual(other Location) bool {
	return l.latitude == other.latitude && l.longitude == other.longitude
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.latitude, l.longitude)
}

// DistanceTo returns the great-circle distance to other in kilometres,
// computed with the Haversine formula.
//
// Example:
//
//	a := kernel.MustNewLocation(0, 0)
//	b := kernel.MustNewLocation(0, 1)
//	a.DistanceTo(b) // ~111.19
func (l Location) DistanceTo(other Location) float64 {
	lat1 := toRadians(l.latitude)
	lat2 := toRadians(other.latitude)
	dLat := lat2 - lat1
	dLng := toRadians(other.longitude - l.longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// BoundingBox is a coarse rectangle around a point. Stores use it to pre-filter
// candidates before the exact great-circle check.
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// BoundingBox returns a rectangle that contains every point within radiusKm.
// Near the poles the longitude span degenerates to the full range.
func (l Location) BoundingBox(radiusKm float64) BoundingBox {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi

	box := BoundingBox{
		MinLatitude:  math.Max(MinLatitude, l.latitude-dLat),
		MaxLatitude:  math.Min(MaxLatitude, l.latitude+dLat),
		MinLongitude: MinLongitude,
		MaxLongitude: MaxLongitude,
	}

	cosLat := math.Cos(toRadians(l.latitude))
	if cosLat > 1e-6 {
		dLng := dLat / cosLat
		if dLng < 180 {
			box.MinLongitude = math.Max(MinLongitude, l.longitude-dLng)
			box.MaxLongitude = math.Min(MaxLongitude, l.longitude+dLng)
		}
	}

	return box
}

func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	l.longitude = longitude
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
