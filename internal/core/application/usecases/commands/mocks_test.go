package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Claim(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Reassign(ctx context.Context, d *delivery.Delivery, previous kernel.UUID) error {
	return m.Called(ctx, d, previous).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return deliveryResult(m.Called(ctx, id))
}

func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return deliveryResult(m.Called(ctx, id))
}

func (m *MockDeliveryRepository) GetByTrackingNumber(ctx context.Context, tn string) (*delivery.Delivery, error) {
	return deliveryResult(m.Called(ctx, tn))
}

func (m *MockDeliveryRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*delivery.Delivery, error) {
	return deliveryResult(m.Called(ctx, driverID))
}

func (m *MockDeliveryRepository) ListPending(ctx context.Context, limit int) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func deliveryResult(args mock.Arguments) (*delivery.Delivery, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Occupy(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return driverResult(m.Called(ctx, id))
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return driverResult(m.Called(ctx, id))
}

func (m *MockDriverRepository) GetByAccountID(ctx context.Context, accountID string) (*driver.Driver, error) {
	return driverResult(m.Called(ctx, accountID))
}

func (m *MockDriverRepository) ListCandidates(ctx context.Context, box kernel.BoundingBox) ([]*driver.Driver, error) {
	return driversResult(m.Called(ctx, box))
}

func (m *MockDriverRepository) EndShift(ctx context.Context, d *driver.Driver, before time.Time) (bool, error) {
	args := m.Called(ctx, d, before)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriverRepository) ListStaleActive(ctx context.Context, before time.Time) ([]*driver.Driver, error) {
	return driversResult(m.Called(ctx, before))
}

func driverResult(args mock.Arguments) (*driver.Driver, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func driversResult(args mock.Arguments) ([]*driver.Driver, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) AddSample(ctx context.Context, s tracking.LocationSample) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockTrackingRepository) AddEvent(ctx context.Context, e tracking.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockTrackingRepository) ListEvents(ctx context.Context, deliveryID kernel.UUID) ([]tracking.Event, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.Event), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Called().Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

func (m *MockUoW) TrackingRepository() ports.TrackingRepository {
	return m.Called().Get(0).(ports.TrackingRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockDriverUoW struct{ mock.Mock }

func (m *MockDriverUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockDriverUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockDriverUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockDriverUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	return m.Called().Get(0).(commands.DriverUoW)
}

type MockPingLimiter struct{ mock.Mock }

func (m *MockPingLimiter) Allow(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

// harness wires one UoW with all three repositories. Repository getters may be
// called any number of times; tests set expectations on the repositories.
type harness struct {
	deliveries *MockDeliveryRepository
	drivers    *MockDriverRepository
	history    *MockTrackingRepository
	uow        *MockUoW
	factory    *MockUoWFactory
}

func newHarness() *harness {
	h := &harness{
		deliveries: new(MockDeliveryRepository),
		drivers:    new(MockDriverRepository),
		history:    new(MockTrackingRepository),
		uow:        new(MockUoW),
		factory:    new(MockUoWFactory),
	}
	h.uow.On("DeliveryRepository").Return(h.deliveries).Maybe()
	h.uow.On("DriverRepository").Return(h.drivers).Maybe()
	h.uow.On("TrackingRepository").Return(h.history).Maybe()
	h.factory.On("Create").Return(h.uow)
	return h
}

// expectTx expects one transaction that commits.
func (h *harness) expectTx(ctx context.Context) {
	h.uow.On("Begin", ctx).Return(nil)
	h.uow.On("Commit", ctx).Return(nil)
	h.uow.On("Rollback", ctx).Return(nil)
}

// expectAbortedTx expects a transaction that is rolled back without commit.
func (h *harness) expectAbortedTx(ctx context.Context) {
	h.uow.On("Begin", ctx).Return(nil)
	h.uow.On("Rollback", ctx).Return(nil)
}

func (h *harness) assertExpectations(t *testing.T) {
	t.Helper()
	h.deliveries.AssertExpectations(t)
	h.drivers.AssertExpectations(t)
	h.history.AssertExpectations(t)
	h.uow.AssertExpectations(t)
}

func eventWithStatus(status delivery.Status) any {
	return mock.MatchedBy(func(e tracking.Event) bool { return e.Status == status })
}

var (
	pickupPoint  = kernel.MustNewLocation(55.7558, 37.6173)
	dropoffPoint = kernel.MustNewLocation(55.7858, 37.6173)
)

func newPendingDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()

	now := time.Now().UTC()
	tn, err := delivery.NewTrackingNumber(now)
	require.NoError(t, err)
	codes, err := delivery.NewCodes()
	require.NoError(t, err)

	d, err := delivery.NewDelivery(delivery.NewParams{
		ID:             kernel.NewUUID(),
		TrackingNumber: tn,
		OrderRef:       "order-1",
		CustomerRef:    "customer-1",
		Pickup:         pickupPoint,
		Dropoff:        dropoffPoint,
		Fee:            6.5,
		Codes:          codes,
	}, now)
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func newAssignedDelivery(t *testing.T, driverID kernel.UUID) *delivery.Delivery {
	t.Helper()

	d := newPendingDelivery(t)
	require.NoError(t, d.Claim(driverID, time.Now().UTC()))
	d.ClearDomainEvents()
	return d
}

// newEligibleDriver returns a verified, on-shift, available driver at loc.
func newEligibleDriver(t *testing.T, loc kernel.Location) *driver.Driver {
	t.Helper()

	now := time.Now().UTC()
	d, err := driver.NewDriver(kernel.NewUUID(), "account-"+kernel.NewUUID().String(), "Test Driver", now)
	require.NoError(t, err)
	d.Verify(now)
	d.StartShift(now)
	require.NoError(t, d.UpdateLocation(loc, now))
	return d
}

// newBusyDriver returns an eligible driver that is already occupied.
func newBusyDriver(t *testing.T, loc kernel.Location) *driver.Driver {
	t.Helper()

	d := newEligibleDriver(t, loc)
	require.NoError(t, d.Occupy(time.Now().UTC()))
	return d
}

// cloneDelivery returns an independent copy, as a repository read would.
func cloneDelivery(t *testing.T, d *delivery.Delivery) *delivery.Delivery {
	t.Helper()

	c, err := delivery.Restore(d.Snapshot())
	require.NoError(t, err)
	return c
}

func cloneDriver(t *testing.T, d *driver.Driver, mutate func(*driver.Snapshot)) *driver.Driver {
	t.Helper()

	s := d.Snapshot()
	if mutate != nil {
		mutate(&s)
	}
	c, err := driver.Restore(s)
	require.NoError(t, err)
	return c
}
