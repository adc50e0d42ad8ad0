package servers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger_Valid(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	assert.NotEmpty(t, swagger.Paths.Map())
	assert.Equal(t, RawSpec(), swaggerSpec)
}

func TestServerInterface_CoversEveryOperation(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	iface := reflect.TypeOf((*ServerInterface)(nil)).Elem()
	var operations []string
	for _, item := range swagger.Paths.Map() {
		for _, op := range item.Operations() {
			operations = append(operations, op.OperationID)
			_, ok := iface.MethodByName(op.OperationID)
			assert.True(t, ok, "ServerInterface lacks %s", op.OperationID)
		}
	}
	assert.Len(t, operations, iface.NumMethod())
}

func TestRegisterHandlers_MatchesDocumentPaths(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	var documented []string
	for path, item := range swagger.Paths.Map() {
		echoPath := strings.NewReplacer("{", ":", "}", "").Replace(path)
		for method := range item.Operations() {
			documented = append(documented, method+" "+echoPath)
		}
	}

	e := echo.New()
	RegisterHandlers(e, nil)
	var registered []string
	for _, route := range e.Routes() {
		registered = append(registered, route.Method+" "+route.Path)
	}

	sort.Strings(documented)
	sort.Strings(registered)
	assert.Equal(t, documented, registered)
}

func TestModels_MatchDocumentSchemas(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)

	models := map[string]any{
		"CancelRequest":     CancelRequest{},
		"CodeConfirmation":  CodeConfirmation{},
		"Codes":             Codes{},
		"CreatedDelivery":   CreatedDelivery{},
		"CreatedDriver":     CreatedDriver{},
		"Decline":           Decline{},
		"DeclineRequest":    DeclineRequest{},
		"Delivery":          Delivery{},
		"Dispatch":          Dispatch{},
		"DispatchCandidate": DispatchCandidate{},
		"DispatchRequest":   DispatchRequest{},
		"Driver":            Driver{},
		"Error":             Error{},
		"Location":          Location{},
		"LocationPing":      LocationPing{},
		"NewDelivery":       NewDelivery{},
		"NewDriver":         NewDriver{},
		"PingResult":        PingResult{},
		"Progress":          Progress{},
		"Rating":            Rating{},
		"ScoreBreakdown":    ScoreBreakdown{},
		"ShiftUpdate":       ShiftUpdate{},
		"StatusUpdate":      StatusUpdate{},
		"TrackingEvent":     TrackingEvent{},
		"Transition":        Transition{},
	}

	for name, schemaRef := range swagger.Components.Schemas {
		schema := schemaRef.Value
		if !schema.Type.Is("object") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			model, ok := models[name]
			require.True(t, ok, "no Go type for schema %s", name)

			required := make(map[string]bool, len(schema.Required))
			for _, r := range schema.Required {
				required[r] = true
			}

			fields := make(map[string]bool)
			typ := reflect.TypeOf(model)
			for i := 0; i < typ.NumField(); i++ {
				tag := typ.Field(i).Tag.Get("json")
				jsonName, opts, _ := strings.Cut(tag, ",")
				fields[jsonName] = opts != "omitempty"
			}

			for prop := range schema.Properties {
				isRequired, ok := fields[prop]
				if assert.True(t, ok, "%s lacks field %s", name, prop) {
					assert.Equal(t, required[prop], isRequired, "%s.%s required mismatch", name, prop)
				}
			}
			assert.Len(t, fields, len(schema.Properties))
		})
	}
}

func TestServerInterfaceWrapper_BindsPathParameter(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/deliveries/not-a-uuid", nil)
	ctx := e.NewContext(req, httptest.NewRecorder())
	ctx.SetParamNames("deliveryId")
	ctx.SetParamValues("not-a-uuid")

	w := &ServerInterfaceWrapper{}
	err := w.GetDelivery(ctx)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
