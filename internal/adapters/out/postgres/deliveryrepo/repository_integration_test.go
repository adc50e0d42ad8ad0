package deliveryrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
	tracker    *MockAggregateTracker
	now        time.Time
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db, suite.tracker)
	suite.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := suite.T().Context()
	d := suite.newDelivery()

	suite.Require().NoError(suite.repository.Add(ctx, d))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	want := d.Snapshot()
	have := got.Snapshot()
	suite.Equal(want.ID, have.ID)
	suite.Equal(want.TrackingNumber, have.TrackingNumber)
	suite.Equal(delivery.Pending, have.Status)
	suite.Equal(want.Codes, have.Codes)
	suite.True(want.Pickup.IsEqual(have.Pickup))
	suite.True(want.Dropoff.IsEqual(have.Dropoff))
	suite.InDelta(want.EstimatedDistanceKm, have.EstimatedDistanceKm, 1e-9)
	suite.InDelta(want.Fee, have.Fee, 1e-9)
	suite.Nil(have.DriverID)
	suite.Empty(have.DeclinedDriverIDs)
	suite.WithinDuration(want.CreatedAt, have.CreatedAt, time.Millisecond)

	byNumber, err := suite.repository.GetByTrackingNumber(ctx, d.TrackingNumber())
	suite.Require().NoError(err)
	suite.Equal(d.ID(), byNumber.ID())

	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", d.ID(), d)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_DuplicateTrackingNumber() {
	ctx := suite.T().Context()
	first := suite.newDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.newDeliveryWithTrackingNumber(first.TrackingNumber())
	err := suite.repository.Add(ctx, second)

	suite.Require().ErrorIs(err, delivery.ErrTrackingNumberTaken)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)

	_, err = suite.repository.GetByTrackingNumber(suite.T().Context(), "TRK00000000AAA")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_Succeeds_ThenLifecyclePersists() {
	ctx := suite.T().Context()
	d := suite.newDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, d))
	driverID := kernel.NewUUID()

	suite.Require().NoError(d.Claim(driverID, suite.now))
	suite.Require().NoError(suite.repository.Claim(ctx, d))

	active, err := suite.repository.GetActiveByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Equal(d.ID(), active.ID())
	suite.Equal(delivery.Assigned, active.Status())

	_, err = active.Advance(delivery.PickedUp, delivery.AdvanceMeta{}, suite.now.Add(5*time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, active))

	tr, err := active.Advance(delivery.Delivered, delivery.AdvanceMeta{}, suite.now.Add(25*time.Minute))
	suite.Require().NoError(err)
	suite.Require().NotNil(tr.ReleasedDriverID)
	suite.Require().NoError(suite.repository.Update(ctx, active))

	stored, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	s := stored.Snapshot()
	suite.Equal(delivery.Delivered, s.Status)
	suite.Nil(s.DriverID)
	suite.Require().NotNil(s.LastDriverID)
	suite.Equal(driverID, *s.LastDriverID)
	suite.Require().NotNil(s.DurationMinutes)
	suite.Equal(20, *s.DurationMinutes)

	_, err = suite.repository.GetActiveByDriver(ctx, driverID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_ConcurrentClaimsExactlyOneWins() {
	ctx := suite.T().Context()
	d := suite.newDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, d))

	const contenders = 12
	results := make([]error, contenders)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			own, err := suite.repository.Get(ctx, d.ID())
			if err != nil {
				results[i] = err
				return
			}
			if err := own.Claim(kernel.NewUUID(), suite.now); err != nil {
				results[i] = err
				return
			}
			results[i] = suite.repository.Claim(ctx, own)
		}()
	}
	close(start)
	wg.Wait()

	wins, lost := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, delivery.ErrAlreadyClaimed):
			lost++
		default:
			suite.Failf("unexpected claim error", "%v", err)
		}
	}
	suite.Equal(1, wins)
	suite.Equal(contenders-1, lost)

	stored, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Assigned, stored.Status())
	suite.NotNil(stored.DriverID())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_DriverAlreadyBusy() {
	ctx := suite.T().Context()
	driverID := kernel.NewUUID()

	first := suite.newDelivery()
	second := suite.newDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	suite.Require().NoError(first.Claim(driverID, suite.now))
	suite.Require().NoError(suite.repository.Claim(ctx, first))

	suite.Require().NoError(second.Claim(driverID, suite.now))
	err := suite.repository.Claim(ctx, second)

	suite.Require().ErrorIs(err, driver.ErrDriverUnavailable)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestClaim_UnknownDelivery() {
	d := suite.newDelivery()
	suite.Require().NoError(d.Claim(kernel.NewUUID(), suite.now))

	err := suite.repository.Claim(suite.T().Context(), d)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestReassign() {
	ctx := suite.T().Context()
	d := suite.newDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, d))

	first := kernel.NewUUID()
	suite.Require().NoError(d.Claim(first, suite.now))
	suite.Require().NoError(suite.repository.Claim(ctx, d))

	suite.Run("wrong previous driver is rejected", func() {
		stale, err := suite.repository.Get(ctx, d.ID())
		suite.Require().NoError(err)
		_, err = stale.Decline(first, suite.now)
		suite.Require().NoError(err)

		err = suite.repository.Reassign(ctx, stale, kernel.NewUUID())
		suite.Require().ErrorIs(err, delivery.ErrAlreadyClaimed)
	})

	suite.Run("decline and claim by the next driver", func() {
		current, err := suite.repository.GetForUpdate(ctx, d.ID())
		suite.Require().NoError(err)
		_, err = current.Decline(first, suite.now)
		suite.Require().NoError(err)
		next := kernel.NewUUID()
		suite.Require().NoError(current.Claim(next, suite.now))

		suite.Require().NoError(suite.repository.Reassign(ctx, current, first))

		stored, err := suite.repository.Get(ctx, d.ID())
		suite.Require().NoError(err)
		suite.True(stored.IsAssignedTo(next))
		suite.True(stored.HasDeclined(first))
	})
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestListPending() {
	ctx := suite.T().Context()
	older := suite.newDeliveryAt(suite.now.Add(-time.Hour))
	newer := suite.newDeliveryAt(suite.now)
	claimed := suite.newDeliveryAt(suite.now.Add(-2 * time.Hour))
	for _, d := range []*delivery.Delivery{newer, claimed, older} {
		suite.Require().NoError(suite.repository.Add(ctx, d))
	}
	suite.Require().NoError(claimed.Claim(kernel.NewUUID(), suite.now))
	suite.Require().NoError(suite.repository.Claim(ctx, claimed))

	pending, err := suite.repository.ListPending(ctx, 10)
	suite.Require().NoError(err)

	suite.Require().Len(pending, 2)
	suite.Equal(older.ID(), pending[0].ID())
	suite.Equal(newer.ID(), pending[1].ID())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newDelivery() *delivery.Delivery {
	return suite.newDeliveryAt(suite.now)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newDeliveryAt(at time.Time) *delivery.Delivery {
	tn, err := delivery.NewTrackingNumber(at)
	suite.Require().NoError(err)
	return suite.build(tn, at)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newDeliveryWithTrackingNumber(tn string) *delivery.Delivery {
	return suite.build(tn, suite.now)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) build(tn string, at time.Time) *delivery.Delivery {
	codes, err := delivery.NewCodes()
	suite.Require().NoError(err)

	d, err := delivery.NewDelivery(delivery.NewParams{
		ID:             kernel.NewUUID(),
		TrackingNumber: tn,
		OrderRef:       "order-" + kernel.NewUUID().String(),
		RestaurantRef:  "restaurant-1",
		CustomerRef:    "customer-1",
		Pickup:         kernel.MustNewLocation(52.5200, 13.4050),
		PickupAddress:  "Alexanderplatz 1",
		Dropoff:        kernel.MustNewLocation(52.5070, 13.3900),
		DropoffAddress: "Potsdamer Platz 5",
		Fee:            5.5,
		Codes:          codes,
	}, at)
	suite.Require().NoError(err)
	return d
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
