package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatch/internal/generated/servers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cases fail before any use case runs, so an empty Server is enough.

func newContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var apiErr servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestServer_GetDeliveryProgress_RequiresBothCoordinates(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodGet, "")
	lat := 55.75

	require.NoError(t, s.GetDeliveryProgress(ctx, uuid.New(), servers.GetDeliveryProgressParams{Latitude: &lat}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "together")
}

func TestServer_NilUUIDIsRejected(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodPost, "")

	require.NoError(t, s.VerifyDriver(ctx, uuid.Nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateDelivery_OutOfRangeLocation(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodPost, `{
		"orderRef": "o", "restaurantRef": "r", "customerRef": "c",
		"pickup": {"latitude": 10, "longitude": 200},
		"pickupAddress": "a",
		"dropoff": {"latitude": 10, "longitude": 20},
		"dropoffAddress": "b"
	}`)

	require.NoError(t, s.CreateDelivery(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RateDelivery_RatingOutOfRange(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodPost, `{"rating": 9}`)

	require.NoError(t, s.RateDelivery(ctx, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ConfirmCode_UnknownKind(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodPost, `{"kind": "return", "code": "QR123"}`)

	require.NoError(t, s.ConfirmCode(ctx, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ReportDriverLocation_InvalidHeading(t *testing.T) {
	s := NewServer(Handlers{})
	ctx, rec := newContext(http.MethodPost, `{"latitude": 55.7, "longitude": 37.6, "heading": 400}`)

	require.NoError(t, s.ReportDriverLocation(ctx, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
