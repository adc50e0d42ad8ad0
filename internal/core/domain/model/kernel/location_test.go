package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantErr   bool
	}{
		{name: "origin", latitude: 0, longitude: 0},
		{name: "north east corner", latitude: 90, longitude: 180},
		{name: "south west corner", latitude: -90, longitude: -180},
		{name: "latitude too large", latitude: 90.0001, longitude: 0, wantErr: true},
		{name: "latitude too small", latitude: -91, longitude: 0, wantErr: true},
		{name: "longitude too large", latitude: 0, longitude: 180.5, wantErr: true},
		{name: "longitude too small", latitude: 0, longitude: -200, wantErr: true},
		{name: "nan latitude", latitude: math.NaN(), longitude: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.latitude, tt.longitude)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				require.Error(t, loc.Validate())
				return
			}
			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.Equal(t, tt.latitude, loc.Latitude())
			assert.Equal(t, tt.longitude, loc.Longitude())
		})
	}
}

func TestNewLocation_ReportsBothViolations(t *testing.T) {
	_, err := kernel.NewLocation(100, 200)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location
	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)
}

func TestLocation_DistanceTo(t *testing.T) {
	tests := []struct {
		name string
		a    kernel.Location
		b    kernel.Location
		want float64
	}{
		{
			name: "same point",
			a:    kernel.MustNewLocation(10, 10),
			b:    kernel.MustNewLocation(10, 10),
			want: 0,
		},
		{
			name: "one degree of longitude on the equator",
			a:    kernel.MustNewLocation(0, 0),
			b:    kernel.MustNewLocation(0, 1),
			want: 111.19,
		},
		{
			name: "one degree of latitude",
			a:    kernel.MustNewLocation(0, 0),
			b:    kernel.MustNewLocation(1, 0),
			want: 111.19,
		},
		{
			name: "berlin to paris",
			a:    kernel.MustNewLocation(52.5200, 13.4050),
			b:    kernel.MustNewLocation(48.8566, 2.3522),
			want: 877.46,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.DistanceTo(tt.b), 0.05)
			assert.InDelta(t, tt.a.DistanceTo(tt.b), tt.b.DistanceTo(tt.a), 1e-9, "distance must be symmetric")
		})
	}
}

func TestLocation_BoundingBox(t *testing.T) {
	center := kernel.MustNewLocation(40, -73)
	box := center.BoundingBox(10)

	assert.Less(t, box.MinLatitude, center.Latitude())
	assert.Greater(t, box.MaxLatitude, center.Latitude())
	assert.Less(t, box.MinLongitude, center.Longitude())
	assert.Greater(t, box.MaxLongitude, center.Longitude())

	// every point on the 10 km circle must lie inside the box
	north := kernel.MustNewLocation(box.MaxLatitude, center.Longitude())
	assert.InDelta(t, 10, center.DistanceTo(north), 0.01)

	polar := kernel.MustNewLocation(89.99, 0).BoundingBox(50)
	assert.Equal(t, kernel.MinLongitude, polar.MinLongitude)
	assert.Equal(t, kernel.MaxLongitude, polar.MaxLongitude)
	assert.Equal(t, kernel.MaxLatitude, polar.MaxLatitude)
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "Location(1.500000,-2.250000)", kernel.MustNewLocation(1.5, -2.25).String())
}

func TestMustNewLocation_Panics(t *testing.T) {
	assert.Panics(t, func() { kernel.MustNewLocation(95, 0) })
}

func FuzzNewLocation(f *testing.F) {
	f.Add(0.0, 0.0)
	f.Add(-90.0, 180.0)
	f.Add(91.0, 0.0)

	f.Fuzz(func(t *testing.T, lat, lng float64) {
		loc, err := kernel.NewLocation(lat, lng)
		inRange := lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
		if inRange {
			require.NoError(t, err)
			require.GreaterOrEqual(t, loc.DistanceTo(loc), 0.0)
		} else {
			require.Error(t, err)
		}
	})
}
