package restapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnav.org/internal/app"
	"campusnav.org/internal/navigation"
)

const toLibraryBody = `{"origin":{"lat":6.5158,"lng":3.3898},"destinationId":"1","travelMode":"walking"}`

func TestDirectionsHandler(t *testing.T) {
	server := serveApi(t, createTestApi(t))

	resp, model := doRequest(t, server, http.MethodPost, "/api/directions?key=TEST", toLibraryBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "University Library", entry["destinationName"])
	assert.Equal(t, "0.3 km", entry["distanceText"])
	assert.Equal(t, "wrwf@gauSoF??fJ", entry["overviewPolyline"])

	steps := entry["steps"].([]interface{})
	require.Len(t, steps, 2)
	first := steps[0].(map[string]interface{})
	assert.Equal(t, "Head north on Campus Rd", first["instruction"])
	assert.Equal(t, "Head <b>north</b> on <b>Campus Rd</b>", first["htmlInstruction"])

	bounds := entry["bounds"].(map[string]interface{})
	assert.InDelta(t, 6.5158, bounds["minLat"], 1e-9)
	assert.InDelta(t, 3.3898, bounds["maxLng"], 1e-9)

	refs := model.Data.(map[string]interface{})["references"].(map[string]interface{})
	assert.Len(t, refs["locations"], 1)
}

func TestDirectionsHandlerWithCoordinates(t *testing.T) {
	server := serveApi(t, createTestApi(t))

	body := `{"origin":{"lat":6.5158,"lng":3.3898},"destination":{"lat":6.517,"lng":3.388}}`
	resp, model := doRequest(t, server, http.MethodPost, "/api/directions?key=TEST", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "University Library", entryOf(t, model)["destinationName"], "falls back to the leg end address")
}

func TestDirectionsHandlerValidation(t *testing.T) {
	server := serveApi(t, createTestApi(t))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", "", "body"},
		{"malformed json", `{"origin":`, "body"},
		{"unknown field", `{"origin":{"lat":1,"lng":1},"destinationId":"1","speed":3}`, "body"},
		{"missing origin", `{"destinationId":"1"}`, "origin"},
		{"origin out of range", `{"origin":{"lat":91,"lng":3.3898},"destinationId":"1"}`, "origin.lat"},
		{"missing destination", `{"origin":{"lat":6.5,"lng":3.3}}`, "destination"},
		{"partial destination", `{"origin":{"lat":6.5,"lng":3.3},"destination":{"lat":6.5}}`, "destination"},
		{"bad destination longitude", `{"origin":{"lat":6.5,"lng":3.3},"destination":{"lat":6.5,"lng":200}}`, "destination.lng"},
		{"unknown destination", `{"origin":{"lat":6.5,"lng":3.3},"destinationId":"99"}`, "destinationId"},
		{"non numeric destination", `{"origin":{"lat":6.5,"lng":3.3},"destinationId":"library"}`, "destinationId"},
		{"bad travel mode", `{"origin":{"lat":6.5,"lng":3.3},"destinationId":"1","travelMode":"flying"}`, "travelMode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := doValidationRequest(t, server, http.MethodPost, "/api/directions?key=TEST", tt.body)
			assert.Contains(t, fieldErrors, tt.field)
		})
	}
}

func TestDirectionsHandlerRouteUnavailable(t *testing.T) {
	api := createTestApi(t, func(a *app.Application) {
		a.Directions = failingProvider{err: fmt.Errorf("%w: status ZERO_RESULTS", navigation.ErrRouteUnavailable)}
	})
	server := serveApi(t, api)

	resp, model := doRequest(t, server, http.MethodPost, "/api/directions?key=TEST", toLibraryBody)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "route unavailable", model.Text)
}

func TestDirectionsHandlerProviderFailure(t *testing.T) {
	api := createTestApi(t, func(a *app.Application) {
		a.Directions = failingProvider{err: assert.AnError}
	})
	server := serveApi(t, api)

	resp, model := doRequest(t, server, http.MethodPost, "/api/directions?key=TEST", toLibraryBody)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", model.Text)
}
