package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campusnav.org/internal/app"
	"campusnav.org/internal/appconf"
	"campusnav.org/internal/directions"
	"campusnav.org/internal/locationdb"
	"campusnav.org/internal/logging"
	"campusnav.org/internal/models"
	"campusnav.org/internal/navigation"
	"campusnav.org/internal/session"
)

const testPreAnnounceDelay = 10 * time.Millisecond

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

type failingProvider struct{ err error }

func (p failingProvider) Route(context.Context, directions.Request) (*navigation.Route, error) {
	return nil, p.err
}

// createTestApi wires an API over an in-memory location database seeded from
// the fixtures and a static route provider.
func createTestApi(t *testing.T, configure ...func(*app.Application)) *RestAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	locations, err := locationdb.NewClient(locationdb.Config{DBPath: ":memory:", Env: appconf.Test, Logger: logger})
	require.NoError(t, err)
	_, err = locations.ImportFromFile(context.Background(), fixturePath("locations.json"))
	require.NoError(t, err)

	provider, err := directions.LoadStaticProvider(fixturePath("campus_route.json"))
	require.NoError(t, err)

	application := &app.Application{
		Config: appconf.Config{
			Env:     appconf.EnvFlagToEnvironment("test"),
			ApiKeys: []string{"TEST"},
		},
		Logger:     logger,
		Locations:  locations,
		Directions: provider,
		Sessions:   session.NewManager(session.Config{PreAnnounceDelay: testPreAnnounceDelay, Logger: logger}),
	}
	for _, c := range configure {
		c(application)
	}

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Close()
		application.Sessions.Shutdown()
		_ = locations.Close()
	})
	return api
}

func serveApi(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	return server
}

// doRequest sends a request to the server and decodes the envelope.
func doRequest(t *testing.T, server *httptest.Server, method, endpoint, body string) (*http.Response, models.ResponseModel) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

// serveAndRetrieveEndpoint issues a GET against a fresh test API.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()
	api := createTestApi(t)
	resp, model := doRequest(t, serveApi(t, api), http.MethodGet, endpoint, "")
	return api, resp, model
}

// doValidationRequest sends a request expected to fail validation and returns the field errors.
func doValidationRequest(t *testing.T, server *httptest.Server, method, endpoint, body string) map[string][]string {
	t.Helper()

	req, err := http.NewRequest(method, server.URL+endpoint, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var payload struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.FieldErrors
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", model.Data)
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object, got %T", data["entry"])
	return entry
}
