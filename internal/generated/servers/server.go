// Package servers holds the API types, the echo routing wrapper and the
// embedded OpenAPI document of the dispatch service. The package follows the
// layout of oapi-codegen's echo output but is maintained by hand: a change to
// openapi.yaml must be mirrored in types.go and server.go, and
// servers_test.go fails when operations or routes drift apart.
package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List deliveries, newest first
	// (GET /api/v1/deliveries)
	ListDeliveries(ctx echo.Context, params ListDeliveriesParams) error
	// Create a pending delivery
	// (POST /api/v1/deliveries)
	CreateDelivery(ctx echo.Context) error
	// (GET /api/v1/deliveries/{deliveryId})
	GetDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// Move a delivery to a new status
	// (POST /api/v1/deliveries/{deliveryId}/status)
	AdvanceDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// (POST /api/v1/deliveries/{deliveryId}/cancel)
	CancelDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// Replace both confirmation codes
	// (POST /api/v1/deliveries/{deliveryId}/codes)
	RegenerateCodes(ctx echo.Context, deliveryId DeliveryId) error
	// Validate a scanned QR code and apply the matching milestone
	// (POST /api/v1/deliveries/{deliveryId}/confirm)
	ConfirmCode(ctx echo.Context, deliveryId DeliveryId) error
	// Release the assigned driver and reassign the delivery
	// (POST /api/v1/deliveries/{deliveryId}/decline)
	DeclineDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// Pick the best eligible driver and claim the delivery for them
	// (POST /api/v1/deliveries/{deliveryId}/dispatch)
	DispatchDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// (GET /api/v1/deliveries/{deliveryId}/history)
	GetDeliveryHistory(ctx echo.Context, deliveryId DeliveryId) error
	// (GET /api/v1/deliveries/{deliveryId}/progress)
	GetDeliveryProgress(ctx echo.Context, deliveryId DeliveryId, params GetDeliveryProgressParams) error
	// (POST /api/v1/deliveries/{deliveryId}/rating)
	RateDelivery(ctx echo.Context, deliveryId DeliveryId) error
	// (POST /api/v1/drivers)
	RegisterDriver(ctx echo.Context) error
	// (GET /api/v1/drivers/{driverId})
	GetDriver(ctx echo.Context, driverId DriverId) error
	// Ingest a location ping
	// (POST /api/v1/drivers/{driverId}/location)
	ReportDriverLocation(ctx echo.Context, driverId DriverId) error
	// (PUT /api/v1/drivers/{driverId}/shift)
	ChangeDriverShift(ctx echo.Context, driverId DriverId) error
	// (POST /api/v1/drivers/{driverId}/verify)
	VerifyDriver(ctx echo.Context, driverId DriverId) error
	// (GET /api/v1/tracking/{trackingNumber})
	GetDeliveryByTrackingNumber(ctx echo.Context, trackingNumber string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListDeliveries converts echo context to params.
func (w *ServerInterfaceWrapper) ListDeliveries(ctx echo.Context) error {
	var err error
	// Parameter object where we will unmarshal all parameters from the context
	var params ListDeliveriesParams
	// ------------- Optional query parameter "status" -------------

	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	// ------------- Optional query parameter "driverId" -------------

	err = runtime.BindQueryParameter("form", true, false, "driverId", ctx.QueryParams(), &params.DriverId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ListDeliveries(ctx, params)
	return err
}

// CreateDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) CreateDelivery(ctx echo.Context) error {
	var err error
	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateDelivery(ctx)
	return err
}

// GetDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) GetDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetDelivery(ctx, deliveryId)
	return err
}

// AdvanceDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) AdvanceDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.AdvanceDelivery(ctx, deliveryId)
	return err
}

// CancelDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) CancelDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CancelDelivery(ctx, deliveryId)
	return err
}

// RegenerateCodes converts echo context to params.
func (w *ServerInterfaceWrapper) RegenerateCodes(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RegenerateCodes(ctx, deliveryId)
	return err
}

// ConfirmCode converts echo context to params.
func (w *ServerInterfaceWrapper) ConfirmCode(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ConfirmCode(ctx, deliveryId)
	return err
}

// DeclineDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) DeclineDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.DeclineDelivery(ctx, deliveryId)
	return err
}

// DispatchDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) DispatchDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.DispatchDelivery(ctx, deliveryId)
	return err
}

// GetDeliveryHistory converts echo context to params.
func (w *ServerInterfaceWrapper) GetDeliveryHistory(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetDeliveryHistory(ctx, deliveryId)
	return err
}

// GetDeliveryProgress converts echo context to params.
func (w *ServerInterfaceWrapper) GetDeliveryProgress(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetDeliveryProgressParams
	// ------------- Optional query parameter "latitude" -------------

	err = runtime.BindQueryParameter("form", true, false, "latitude", ctx.QueryParams(), &params.Latitude)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter latitude: %s", err))
	}

	// ------------- Optional query parameter "longitude" -------------

	err = runtime.BindQueryParameter("form", true, false, "longitude", ctx.QueryParams(), &params.Longitude)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter longitude: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetDeliveryProgress(ctx, deliveryId, params)
	return err
}

// RateDelivery converts echo context to params.
func (w *ServerInterfaceWrapper) RateDelivery(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "deliveryId" -------------
	var deliveryId DeliveryId

	err = runtime.BindStyledParameterWithOptions("simple", "deliveryId", ctx.Param("deliveryId"), &deliveryId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter deliveryId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RateDelivery(ctx, deliveryId)
	return err
}

// RegisterDriver converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterDriver(ctx echo.Context) error {
	var err error
	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RegisterDriver(ctx)
	return err
}

// GetDriver converts echo context to params.
func (w *ServerInterfaceWrapper) GetDriver(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetDriver(ctx, driverId)
	return err
}

// ReportDriverLocation converts echo context to params.
func (w *ServerInterfaceWrapper) ReportDriverLocation(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ReportDriverLocation(ctx, driverId)
	return err
}

// ChangeDriverShift converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeDriverShift(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ChangeDriverShift(ctx, driverId)
	return err
}

// VerifyDriver converts echo context to params.
func (w *ServerInterfaceWrapper) VerifyDriver(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "driverId" -------------
	var driverId DriverId

	err = runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.VerifyDriver(ctx, driverId)
	return err
}

// GetDeliveryByTrackingNumber converts echo context to params.
func (w *ServerInterfaceWrapper) GetDeliveryByTrackingNumber(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "trackingNumber" -------------
	var trackingNumber string

	err = runtime.BindStyledParameterWithOptions("simple", "trackingNumber", ctx.Param("trackingNumber"), &trackingNumber, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter trackingNumber: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetDeliveryByTrackingNumber(ctx, trackingNumber)
	return err
}

// This is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// Registers handlers, and prepends BaseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {

	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/deliveries", wrapper.ListDeliveries)
	router.POST(baseURL+"/api/v1/deliveries", wrapper.CreateDelivery)
	router.GET(baseURL+"/api/v1/deliveries/:deliveryId", wrapper.GetDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/status", wrapper.AdvanceDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/cancel", wrapper.CancelDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/codes", wrapper.RegenerateCodes)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/confirm", wrapper.ConfirmCode)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/decline", wrapper.DeclineDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/dispatch", wrapper.DispatchDelivery)
	router.GET(baseURL+"/api/v1/deliveries/:deliveryId/history", wrapper.GetDeliveryHistory)
	router.GET(baseURL+"/api/v1/deliveries/:deliveryId/progress", wrapper.GetDeliveryProgress)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/rating", wrapper.RateDelivery)
	router.POST(baseURL+"/api/v1/drivers", wrapper.RegisterDriver)
	router.GET(baseURL+"/api/v1/drivers/:driverId", wrapper.GetDriver)
	router.POST(baseURL+"/api/v1/drivers/:driverId/location", wrapper.ReportDriverLocation)
	router.PUT(baseURL+"/api/v1/drivers/:driverId/shift", wrapper.ChangeDriverShift)
	router.POST(baseURL+"/api/v1/drivers/:driverId/verify", wrapper.VerifyDriver)
	router.GET(baseURL+"/api/v1/tracking/:trackingNumber", wrapper.GetDeliveryByTrackingNumber)

}
