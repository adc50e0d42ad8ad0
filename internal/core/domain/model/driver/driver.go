package driver

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// DefaultRating is the rating of a driver nobody has rated yet.
	DefaultRating = 2.5
	// MinRating and MaxRating bound the average rating.
	MinRating = 0.0
	MaxRating = 5.0
)

var (
	// ErrDriverIsNotConstructed is returned for a Driver not built by NewDriver or Restore.
	ErrDriverIsNotConstructed = errors.New("driver must be created via NewDriver or Restore")

	// ErrDriverUnavailable means the driver is already busy with another delivery.
	ErrDriverUnavailable = errors.New("driver is not available")

	// ErrAccountIsRequired is returned when the account reference is empty.
	ErrAccountIsRequired = errs.NewValueIsRequiredError("account id")

	// ErrAccountAlreadyRegistered is returned by storage when the account is bound to another driver.
	ErrAccountAlreadyRegistered = errors.New("account already registered as a driver")
)

// Snapshot is the persisted state of a Driver.
type Snapshot struct {
	ID                 kernel.UUID
	AccountID          string
	Name               string
	Location           *kernel.Location
	LastLocationUpdate *time.Time
	Available          bool
	Verified           bool
	Active             bool
	Rating             float64
	RatingsCount       int
	TotalDeliveries    int
	TotalEarnings      float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Driver is a courier who can be offered deliveries.
//
// Example:
//
//	d, err := driver.NewDriver(kernel.NewUUID(), "account-17", "Ann", now)
//	if err != nil {
//	    return err
//	}
//	d.Verify(now)
//	d.StartShift(now)
//	d.UpdateLocation(here, now)
//	d.IsEligible() // true
type Driver struct {
	state         Snapshot
	isConstructed bool
}

// NewDriver registers a driver. New drivers are available but unverified and off shift.
func NewDriver(id kernel.UUID, accountID, name string, now time.Time) (*Driver, error) {
	accountID = strings.TrimSpace(accountID)
	var accountErr error
	if accountID == "" {
		accountErr = ErrAccountIsRequired
	}
	if err := errors.Join(id.Validate(), accountErr); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Driver{
		state: Snapshot{
			ID:        id,
			AccountID: accountID,
			Name:      strings.TrimSpace(name),
			Available: true,
			Rating:    DefaultRating,
			CreatedAt: now,
			UpdatedAt: now,
		},
		isConstructed: true,
	}, nil
}

// Restore rebuilds a driver from storage.
func Restore(s Snapshot) (*Driver, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}
	if s.Rating < MinRating || s.Rating > MaxRating {
		return nil, errs.NewValueIsOutOfRangeError("rating", s.Rating, MinRating, MaxRating)
	}
	if s.Location != nil {
		if err := s.Location.Validate(); err != nil {
			return nil, err
		}
	}
	return &Driver{state: s, isConstructed: true}, nil
}

// Validate ensures the driver was built through a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (d *Driver) Snapshot() Snapshot { return d.state }

func (d *Driver) ID() kernel.UUID                { return d.state.ID }
func (d *Driver) AccountID() string              { return d.state.AccountID }
func (d *Driver) Location() *kernel.Location     { return d.state.Location }
func (d *Driver) LastLocationUpdate() *time.Time { return d.state.LastLocationUpdate }
func (d *Driver) IsAvailable() bool              { return d.state.Available }
func (d *Driver) IsVerified() bool               { return d.state.Verified }
func (d *Driver) IsActive() bool                 { return d.state.Active }
func (d *Driver) Rating() float64                { return d.state.Rating }
func (d *Driver) RatingsCount() int              { return d.state.RatingsCount }
func (d *Driver) TotalDeliveries() int           { return d.state.TotalDeliveries }
func (d *Driver) TotalEarnings() float64         { return d.state.TotalEarnings }

// IsEligible reports whether the driver may be offered a new delivery:
// available, verified, on shift and with a known location.
func (d *Driver) IsEligible() bool {
	return d.state.Available && d.state.Verified && d.state.Active && d.state.Location != nil
}

// Occupy marks the driver busy. Only the delivery lifecycle calls it, while claiming.
func (d *Driver) Occupy(now time.Time) error {
	if !d.state.Available {
		return ErrDriverUnavailable
	}
	d.state.Available = false
	d.state.UpdatedAt = now.UTC()
	return nil
}

// Release frees the driver after their delivery reached a terminal state or was declined.
func (d *Driver) Release(now time.Time) {
	d.state.Available = true
	d.state.UpdatedAt = now.UTC()
}

// CompleteDelivery credits a finished delivery and its fee.
func (d *Driver) CompleteDelivery(fee float64, now time.Time) {
	d.state.TotalDeliveries++
	if fee > 0 {
		d.state.TotalEarnings = math.Round((d.state.TotalEarnings+fee)*100) / 100
	}
	d.state.UpdatedAt = now.UTC()
}

// HasNewerLocationThan reports whether the stored position was captured after capturedAt.
func (d *Driver) HasNewerLocationThan(capturedAt time.Time) bool {
	return d.state.LastLocationUpdate != nil && d.state.LastLocationUpdate.After(capturedAt)
}

// UpdateLocation stores the latest known position. A position captured
// before the stored one is ignored.
func (d *Driver) UpdateLocation(loc kernel.Location, capturedAt time.Time) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if d.HasNewerLocationThan(capturedAt) {
		return nil
	}
	capturedAt = capturedAt.UTC()
	d.state.Location = &loc
	d.state.LastLocationUpdate = &capturedAt
	d.state.UpdatedAt = capturedAt
	return nil
}

// StartShift puts the driver on shift.
func (d *Driver) StartShift(now time.Time) {
	d.state.Active = true
	d.state.UpdatedAt = now.UTC()
}

// EndShift takes the driver off shift. A delivery in progress is not affected.
func (d *Driver) EndShift(now time.Time) {
	d.state.Active = false
	d.state.UpdatedAt = now.UTC()
}

// Verify records that the driver's documents were accepted.
func (d *Driver) Verify(now time.Time) {
	d.state.Verified = true
	d.state.UpdatedAt = now.UTC()
}

// ApplyRating folds a customer rating (1..5) into the running average.
// The default rating does not count as a sample.
func (d *Driver) ApplyRating(rating int, now time.Time) error {
	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	total := d.state.Rating*float64(d.state.RatingsCount) + float64(rating)
	d.state.RatingsCount++
	avg := total / float64(d.state.RatingsCount)
	d.state.Rating = math.Min(MaxRating, math.Max(MinRating, math.Round(avg*100)/100))
	d.state.UpdatedAt = now.UTC()
	return nil
}

// MinutesSinceLocationUpdate returns how stale the position is, or +Inf if unknown.
func (d *Driver) MinutesSinceLocationUpdate(now time.Time) float64 {
	if d.state.LastLocationUpdate == nil {
		return math.Inf(1)
	}
	return math.Max(0, now.Sub(*d.state.LastLocationUpdate).Minutes())
}

// String implements fmt.Stringer for log lines.
func (d *Driver) String() string {
	return fmt.Sprintf("Driver(%s)", d.state.ID)
}
