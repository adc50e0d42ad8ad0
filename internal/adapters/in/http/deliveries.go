package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body servers.NewDelivery
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	pickup, err := kernelLocation(body.Pickup)
	if err != nil {
		return respondError(ctx, err)
	}
	dropoff, err := kernelLocation(body.Dropoff)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCreateDeliveryCommand(commands.CreateDeliveryParams{
		OrderRef:       body.OrderRef,
		RestaurantRef:  body.RestaurantRef,
		CustomerRef:    body.CustomerRef,
		Pickup:         pickup,
		PickupAddress:  body.PickupAddress,
		Dropoff:        dropoff,
		DropoffAddress: body.DropoffAddress,
		Fee:            body.Fee,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.CreatedDelivery{
		Id:             result.ID.Bytes(),
		TrackingNumber: result.TrackingNumber,
		Fee:            result.Fee,
		PickupCode:     result.Codes.Pickup,
		DeliveryCode:   result.Codes.Delivery,
	})
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(ctx echo.Context, params servers.ListDeliveriesParams) error {
	var status *delivery.Status
	if params.Status != nil {
		parsed, err := delivery.ParseStatus(string(*params.Status))
		if err != nil {
			return respondError(ctx, err)
		}
		status = &parsed
	}

	var driverID *kernel.UUID
	if params.DriverId != nil {
		id, err := kernelUUID(*params.DriverId)
		if err != nil {
			return respondError(ctx, err)
		}
		driverID = &id
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListDeliveriesQuery(status, driverID, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	views, err := s.listDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.Delivery, len(views))
	for i, v := range views {
		response[i] = apiDelivery(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDelivery handles GET /api/v1/deliveries/{deliveryId}.
func (s *Server) GetDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetDeliveryQueryByID(id)
	if err != nil {
		return respondError(ctx, err)
	}
	return s.respondDelivery(ctx, query)
}

// GetDeliveryByTrackingNumber handles GET /api/v1/tracking/{trackingNumber}.
func (s *Server) GetDeliveryByTrackingNumber(ctx echo.Context, trackingNumber string) error {
	query, err := queries.NewGetDeliveryQueryByTrackingNumber(trackingNumber)
	if err != nil {
		return respondError(ctx, err)
	}
	return s.respondDelivery(ctx, query)
}

func (s *Server) respondDelivery(ctx echo.Context, query queries.GetDeliveryQuery) error {
	view, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, apiDelivery(view))
}

// DispatchDelivery handles POST /api/v1/deliveries/{deliveryId}/dispatch.
func (s *Server) DispatchDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.DispatchRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var excluded []kernel.UUID
	if body.ExcludedDriverIds != nil {
		for _, raw := range *body.ExcludedDriverIds {
			driverID, err := kernelUUID(raw)
			if err != nil {
				return respondError(ctx, err)
			}
			excluded = append(excluded, driverID)
		}
	}

	cmd, err := commands.NewDispatchDeliveryCommand(id, excluded...)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.dispatchDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, apiDispatch(result))
}

// AdvanceDelivery handles POST /api/v1/deliveries/{deliveryId}/status.
// The actor defaults to the driver, who reports most milestones.
func (s *Server) AdvanceDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.StatusUpdate
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := delivery.ParseStatus(string(body.Status))
	if err != nil {
		return respondError(ctx, err)
	}
	location, err := optionalKernelLocation(body.Location)
	if err != nil {
		return respondError(ctx, err)
	}
	note := ""
	if body.Note != nil {
		note = *body.Note
	}

	cmd, err := commands.NewAdvanceDeliveryCommand(id, target, location, note, actorOr(body.Actor, tracking.ActorDriver))
	if err != nil {
		return respondError(ctx, err)
	}

	transition, err := s.advanceDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, apiTransition(transition))
}

// CancelDelivery handles POST /api/v1/deliveries/{deliveryId}/cancel.
func (s *Server) CancelDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.CancelRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelDeliveryCommand(id, body.Reason, actorOr(body.Actor, tracking.ActorAdmin))
	if err != nil {
		return respondError(ctx, err)
	}

	transition, err := s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, apiTransition(transition))
}

// DeclineDelivery handles POST /api/v1/deliveries/{deliveryId}/decline.
func (s *Server) DeclineDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.DeclineRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	driverID, err := kernelUUID(body.DriverId)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeclineDeliveryCommand(id, driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.declineDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Decline{
		From:         servers.DeliveryStatus(result.Transition.From),
		To:           servers.DeliveryStatus(result.Transition.To),
		Changed:      result.Transition.Changed,
		ReassignedTo: optionalAPIUUID(result.ReassignedTo),
	})
}

// ConfirmCode handles POST /api/v1/deliveries/{deliveryId}/confirm.
func (s *Server) ConfirmCode(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.CodeConfirmation
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kind, err := delivery.ParseCodeKind(string(body.Kind))
	if err != nil {
		return respondError(ctx, err)
	}
	location, err := optionalKernelLocation(body.Location)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewConfirmCodeCommand(id, kind, body.Code, location)
	if err != nil {
		return respondError(ctx, err)
	}

	transition, err := s.confirmCodeHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, apiTransition(transition))
}

// RegenerateCodes handles POST /api/v1/deliveries/{deliveryId}/codes.
func (s *Server) RegenerateCodes(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRegenerateCodesCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	codes, err := s.regenerateCodesHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.Codes{PickupCode: codes.Pickup, DeliveryCode: codes.Delivery})
}

// RateDelivery handles POST /api/v1/deliveries/{deliveryId}/rating.
func (s *Server) RateDelivery(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.Rating
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	feedback := ""
	if body.Feedback != nil {
		feedback = *body.Feedback
	}

	cmd, err := commands.NewRateDeliveryCommand(id, body.Rating, feedback)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.rateDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetDeliveryProgress handles GET /api/v1/deliveries/{deliveryId}/progress.
// An explicit position must carry both coordinates.
func (s *Server) GetDeliveryProgress(
	ctx echo.Context,
	deliveryID servers.DeliveryId,
	params servers.GetDeliveryProgressParams,
) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	var current *kernel.Location
	switch {
	case params.Latitude != nil && params.Longitude != nil:
		loc, err := kernel.NewLocation(*params.Latitude, *params.Longitude)
		if err != nil {
			return respondError(ctx, err)
		}
		current = &loc
	case params.Latitude != nil || params.Longitude != nil:
		return badRequest(ctx, "latitude and longitude must be given together")
	}

	query, err := queries.NewGetDeliveryProgressQuery(id, current)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getDeliveryProgressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Progress{
		DeliveryId:            view.DeliveryID.Bytes(),
		TrackingNumber:        view.TrackingNumber,
		Status:                servers.DeliveryStatus(view.Status),
		Percent:               view.Progress.Percent,
		RemainingDistanceKm:   view.Progress.RemainingDistanceKm,
		RemainingMinutes:      view.Progress.RemainingMinutes,
		Position:              optionalAPILocation(view.Position),
		EstimatedDeliveryTime: view.EstimatedDeliveryTime,
	})
}

// GetDeliveryHistory handles GET /api/v1/deliveries/{deliveryId}/history.
func (s *Server) GetDeliveryHistory(ctx echo.Context, deliveryID servers.DeliveryId) error {
	id, err := kernelUUID(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetDeliveryHistoryQuery(id)
	if err != nil {
		return respondError(ctx, err)
	}

	events, err := s.getDeliveryHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.TrackingEvent, len(events))
	for i, e := range events {
		response[i] = apiTrackingEvent(e)
	}
	return ctx.JSON(http.StatusOK, response)
}

func actorOr(actor *servers.Actor, fallback tracking.Actor) tracking.Actor {
	if actor == nil {
		return fallback
	}
	return tracking.Actor(*actor)
}
