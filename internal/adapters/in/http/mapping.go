package http

import (
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func kernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func optionalAPIUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	out := id.Bytes()
	return &out
}

func kernelLocation(l servers.Location) (kernel.Location, error) {
	return kernel.NewLocation(l.Latitude, l.Longitude)
}

func optionalKernelLocation(l *servers.Location) (*kernel.Location, error) {
	if l == nil {
		return nil, nil
	}
	loc, err := kernelLocation(*l)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func apiLocation(l kernel.Location) servers.Location {
	return servers.Location{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func optionalAPILocation(l *kernel.Location) *servers.Location {
	if l == nil {
		return nil
	}
	out := apiLocation(*l)
	return &out
}

func apiTransition(t delivery.Transition) servers.Transition {
	return servers.Transition{
		From:    servers.DeliveryStatus(t.From),
		To:      servers.DeliveryStatus(t.To),
		Changed: t.Changed,
	}
}

func apiDelivery(v queries.DeliveryView) servers.Delivery {
	return servers.Delivery{
		Id:                    v.ID.Bytes(),
		TrackingNumber:        v.TrackingNumber,
		Status:                servers.DeliveryStatus(v.Status),
		OrderRef:              v.OrderRef,
		RestaurantRef:         v.RestaurantRef,
		CustomerRef:           v.CustomerRef,
		Pickup:                apiLocation(v.Pickup),
		PickupAddress:         v.PickupAddress,
		Dropoff:               apiLocation(v.Dropoff),
		DropoffAddress:        v.DropoffAddress,
		DriverId:              optionalAPIUUID(v.DriverID),
		Fee:                   v.Fee,
		EstimatedDistanceKm:   v.EstimatedDistanceKm,
		LastKnownLocation:     optionalAPILocation(v.LastKnownLocation),
		LastTrackedAt:         v.LastTrackedAt,
		EstimatedDeliveryTime: v.EstimatedDeliveryTime,
		CreatedAt:             v.CreatedAt,
		AssignedAt:            v.AssignedAt,
		PickedUpAt:            v.PickedUpAt,
		DeliveredAt:           v.DeliveredAt,
		CancelledAt:           v.CancelledAt,
		DurationMinutes:       v.DurationMinutes,
		CustomerRating:        v.CustomerRating,
	}
}

func apiDriver(v queries.DriverView) servers.Driver {
	return servers.Driver{
		Id:                 v.ID.Bytes(),
		AccountId:          v.AccountID,
		Name:               v.Name,
		Location:           optionalAPILocation(v.Location),
		LastLocationUpdate: v.LastLocationUpdate,
		Available:          v.Available,
		Verified:           v.Verified,
		Active:             v.Active,
		Rating:             v.Rating,
		RatingsCount:       v.RatingsCount,
		TotalDeliveries:    v.TotalDeliveries,
		TotalEarnings:      v.TotalEarnings,
		ActiveDeliveryId:   optionalAPIUUID(v.ActiveDeliveryID),
	}
}

func apiTrackingEvent(v queries.TrackingEventView) servers.TrackingEvent {
	return servers.TrackingEvent{
		Id:        v.ID.Bytes(),
		Status:    servers.DeliveryStatus(v.Status),
		Location:  optionalAPILocation(v.Location),
		Note:      v.Note,
		Actor:     servers.Actor(v.Actor),
		CreatedAt: v.CreatedAt,
	}
}

func apiCandidate(c services.Candidate) servers.DispatchCandidate {
	return servers.DispatchCandidate{
		DriverId:   c.Driver.ID().Bytes(),
		DistanceKm: c.DistanceKm,
		Score:      c.Score.Total,
		Breakdown: servers.ScoreBreakdown{
			Proximity:  c.Score.Proximity,
			Rating:     c.Score.Rating,
			Experience: c.Score.Experience,
			Recency:    c.Score.Recency,
		},
	}
}

// apiDispatch reports the claimed driver, which is the winner unless the
// winner was taken concurrently, and the rest of the ranking as alternatives.
func apiDispatch(r commands.DispatchResult) servers.Dispatch {
	out := servers.Dispatch{
		DeliveryId:            r.DeliveryID.Bytes(),
		DriverId:              r.DriverID.Bytes(),
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
		Alternatives:          []servers.DispatchCandidate{},
	}
	for _, c := range r.Assignment.Ranked() {
		candidate := apiCandidate(c)
		if c.Driver.ID().IsEqual(r.DriverID) {
			out.DistanceKm = candidate.DistanceKm
			out.Score = candidate.Score
			out.Breakdown = candidate.Breakdown
			continue
		}
		out.Alternatives = append(out.Alternatives, candidate)
	}
	return out
}
