package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// RegisterDriver handles POST /api/v1/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var body servers.NewDriver
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := optionalKernelLocation(body.Location)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRegisterDriverCommand(body.AccountId, body.Name, location)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := s.registerDriverHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, servers.CreatedDriver{Id: id.Bytes()})
}

// GetDriver handles GET /api/v1/drivers/{driverId}.
func (s *Server) GetDriver(ctx echo.Context, driverID servers.DriverId) error {
	id, err := kernelUUID(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetDriverQuery(id)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getDriverHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, apiDriver(view))
}

// ChangeDriverShift handles PUT /api/v1/drivers/{driverId}/shift.
func (s *Server) ChangeDriverShift(ctx echo.Context, driverID servers.DriverId) error {
	id, err := kernelUUID(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.ShiftUpdate
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewChangeDriverShiftCommand(id, body.OnShift)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.changeShiftHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// VerifyDriver handles POST /api/v1/drivers/{driverId}/verify.
func (s *Server) VerifyDriver(ctx echo.Context, driverID servers.DriverId) error {
	id, err := kernelUUID(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewVerifyDriverCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.verifyDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReportDriverLocation handles POST /api/v1/drivers/{driverId}/location.
func (s *Server) ReportDriverLocation(ctx echo.Context, driverID servers.DriverId) error {
	id, err := kernelUUID(driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	var body servers.LocationPing
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernelLocation(servers.Location{Latitude: body.Latitude, Longitude: body.Longitude})
	if err != nil {
		return respondError(ctx, err)
	}

	var capturedAt time.Time
	if body.CapturedAt != nil {
		capturedAt = *body.CapturedAt
	}

	cmd, err := commands.NewIngestLocationCommand(id, location, tracking.Telemetry{
		AccuracyMeters: body.Accuracy,
		HeadingDegrees: body.Heading,
		SpeedKmh:       body.Speed,
		AltitudeMeters: body.Altitude,
	}, capturedAt)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.ingestLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := servers.PingResult{DeliveryId: optionalAPIUUID(result.DeliveryID)}
	if result.ETA != nil {
		at := result.ETA.At
		source := servers.PingResultEtaSource(result.ETA.Source)
		response.EstimatedDeliveryTime = &at
		response.EtaSource = &source
	}
	return ctx.JSON(http.StatusAccepted, response)
}
