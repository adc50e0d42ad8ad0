// Package http exposes the dispatch engine over REST and the live tracking
// WebSocket feed. Routes and request validation come from the embedded
// OpenAPI document in internal/generated/servers.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"dispatch/internal/core/application/eventhandlers"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// TrackingFeed serves one WebSocket connection for a topic.
type TrackingFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, topic string) error
}

// NewRouter wires middleware, the API routes, the tracking feed,
// Swagger UI and the health check.
func NewRouter(server servers.ServerInterface, feed TrackingFeed, logger *slog.Logger) (*echo.Echo, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err := RegisterSwaggerDoc(swagger); err != nil {
		return nil, err
	}
	validator, err := RequestValidator(swagger)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, server)

	if feed != nil {
		e.GET("/api/v1/tracking/:trackingNumber/ws", func(c echo.Context) error {
			tn := strings.ToUpper(strings.TrimSpace(c.Param("trackingNumber")))
			return feed.Serve(c.Response(), c.Request(), eventhandlers.TrackingTopic(tn))
		})
	}

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
