package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/navigation"
)

// DefaultGoogleBaseURL is the Directions API JSON endpoint.
const DefaultGoogleBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleClient fetches routes from the Google Directions API.
type GoogleClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewGoogleClient returns a client for the public endpoint.
func NewGoogleClient(apiKey string, timeout time.Duration, logger *slog.Logger) *GoogleClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleClient{
		BaseURL: DefaultGoogleBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger.With(slog.String("component", "directions_google")),
	}
}

func (c *GoogleClient) Route(ctx context.Context, req Request) (*navigation.Route, error) {
	start := time.Now()
	mode := req.Mode
	if mode == "" {
		mode = navigation.TravelModeDriving
	}

	q := url.Values{}
	q.Set("origin", formatLatLng(req.Origin))
	q.Set("destination", formatLatLng(req.Destination))
	q.Set("mode", string(mode))
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", navigation.ErrRouteUnavailable, err)
	}

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		logging.LogError(c.Logger, "directions request failed", err)
		return nil, fmt.Errorf("%w: %v", navigation.ErrRouteUnavailable, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.Logger, "http_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: directions API returned %d", navigation.ErrRouteUnavailable, resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", navigation.ErrRouteUnavailable, err)
	}

	route, err := parsed.toRoute()
	if err != nil {
		c.Logger.Warn("directions lookup rejected", slog.String("status", parsed.Status))
		return nil, err
	}

	logging.LogOperation(c.Logger, "directions_fetched",
		slog.String("mode", string(mode)),
		slog.Int("steps", len(route.Steps())),
		slog.Duration("duration", time.Since(start)))
	return route, nil
}

func formatLatLng(p navigation.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
