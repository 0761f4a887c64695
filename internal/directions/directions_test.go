package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnav.org/internal/navigation"
)

var campusRequest = Request{
	Origin:      navigation.LatLng{Lat: 6.5158, Lng: 3.3898},
	Destination: navigation.LatLng{Lat: 6.517, Lng: 3.388},
	Mode:        navigation.TravelModeWalking,
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(fixturePath(name))
	require.NoError(t, err)
	return data
}

func TestParseResponse(t *testing.T) {
	route, err := ParseResponse(readFixture(t, "campus_route.json"))
	require.NoError(t, err)

	assert.Equal(t, "Campus Rd", route.Summary)
	require.Len(t, route.Legs, 1)
	leg := route.Legs[0]
	assert.Equal(t, "0.3 km", leg.DistanceText)
	assert.Equal(t, "University Library", leg.EndAddress)
	assert.InDelta(t, 332, leg.DistanceMeters, 0.001)

	steps := route.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "Head <b>north</b> on <b>Campus Rd</b>", steps[0].Instruction)
	assert.Equal(t, "turn-left", steps[1].Maneuver)
	assert.InDelta(t, 199, steps[1].DistanceMeters, 0.001)
	assert.Equal(t, navigation.LatLng{Lat: 6.517, Lng: 3.388}, steps[1].EndLocation)

	require.Len(t, steps[0].Path, 2)
	assert.InDelta(t, 6.5158, steps[0].Path[0].Lat, 1e-6)
	assert.InDelta(t, 6.517, steps[0].Path[1].Lat, 1e-6)

	require.Len(t, route.Overview, 3)
	assert.InDelta(t, 3.388, route.Overview[2].Lng, 1e-6)
}

func TestParseResponseRejectsNonOKStatus(t *testing.T) {
	_, err := ParseResponse(readFixture(t, "zero_results.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, navigation.ErrRouteUnavailable)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestParseResponseRejectsGarbage(t *testing.T) {
	_, err := ParseResponse([]byte("not json"))
	assert.ErrorIs(t, err, navigation.ErrRouteUnavailable)
}

func TestEncodePathRoundTrip(t *testing.T) {
	path := []navigation.LatLng{{Lat: 38.5, Lng: -120.2}, {Lat: 40.7, Lng: -120.95}, {Lat: 43.252, Lng: -126.453}}
	encoded := EncodePath(path)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := decodePath(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lng, decoded[i].Lng, 1e-5)
	}
}

func TestGoogleClientRoute(t *testing.T) {
	fixture := readFixture(t, "campus_route.json")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "6.5158,3.3898", r.URL.Query().Get("origin"))
		assert.Equal(t, "6.517,3.388", r.URL.Query().Get("destination"))
		assert.Equal(t, "walking", r.URL.Query().Get("mode"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	client := NewGoogleClient("secret", 5*time.Second, nil)
	client.BaseURL = server.URL

	route, err := client.Route(context.Background(), campusRequest)
	require.NoError(t, err)
	assert.Len(t, route.Steps(), 2)
}

func TestGoogleClientDefaultsToDriving(t *testing.T) {
	fixture := readFixture(t, "campus_route.json")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
		assert.Empty(t, r.URL.Query().Get("key"))
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	client := NewGoogleClient("", 5*time.Second, nil)
	client.BaseURL = server.URL

	req := campusRequest
	req.Mode = ""
	_, err := client.Route(context.Background(), req)
	require.NoError(t, err)
}

func TestGoogleClientFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "zero results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
			},
		},
		{
			name: "request denied",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","routes":[]}`))
			},
		},
		{
			name: "ok without routes",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"OK","routes":[]}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewGoogleClient("k", 5*time.Second, nil)
			client.BaseURL = server.URL

			route, err := client.Route(context.Background(), campusRequest)
			assert.Nil(t, route)
			assert.ErrorIs(t, err, navigation.ErrRouteUnavailable)
		})
	}
}

func TestGoogleClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewGoogleClient("k", time.Second, nil)
	client.BaseURL = server.URL

	_, err := client.Route(context.Background(), campusRequest)
	assert.ErrorIs(t, err, navigation.ErrRouteUnavailable)
}

type countingProvider struct {
	calls atomic.Int32
	route *navigation.Route
	err   error
}

func (p *countingProvider) Route(context.Context, Request) (*navigation.Route, error) {
	p.calls.Add(1)
	return p.route, p.err
}

func TestCachingProviderReusesRoutes(t *testing.T) {
	inner := &countingProvider{route: &navigation.Route{Summary: "cached"}}
	provider := NewCachingProvider(inner, time.Minute, nil)
	defer provider.Close()

	first, err := provider.Route(context.Background(), campusRequest)
	require.NoError(t, err)

	jittered := campusRequest
	jittered.Origin.Lat += 0.000001
	second, err := provider.Route(context.Background(), jittered)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())

	other := campusRequest
	other.Mode = navigation.TravelModeDriving
	_, err = provider.Route(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachingProviderDoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{err: navigation.ErrRouteUnavailable}
	provider := NewCachingProvider(inner, time.Minute, nil)
	defer provider.Close()

	for i := 0; i < 2; i++ {
		_, err := provider.Route(context.Background(), campusRequest)
		assert.True(t, errors.Is(err, navigation.ErrRouteUnavailable))
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestStaticProvider(t *testing.T) {
	provider, err := LoadStaticProvider(fixturePath("campus_route.json"))
	require.NoError(t, err)

	route, err := provider.Route(context.Background(), campusRequest)
	require.NoError(t, err)
	assert.Equal(t, "Campus Rd", route.Summary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = provider.Route(ctx, campusRequest)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewStaticProvider(nil).Route(context.Background(), campusRequest)
	assert.ErrorIs(t, err, navigation.ErrRouteUnavailable)

	_, err = LoadStaticProvider(fixturePath("missing.json"))
	assert.Error(t, err)
}

func TestRequestKey(t *testing.T) {
	req := Request{Origin: navigation.LatLng{Lat: 1, Lng: 2}, Destination: navigation.LatLng{Lat: 3, Lng: 4}}
	assert.Equal(t, "1.00000,2.00000|3.00000,4.00000|driving", req.Key())
}
