package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"campusnav.org/internal/navigation"
)

// StaticProvider answers every request with the same route.
type StaticProvider struct {
	route *navigation.Route
}

// NewStaticProvider wraps an already built route.
func NewStaticProvider(route *navigation.Route) *StaticProvider {
	return &StaticProvider{route: route}
}

// LoadStaticProvider reads a Directions API response saved as JSON.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route file: %w", err)
	}
	route, err := ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing route file %s: %w", path, err)
	}
	return &StaticProvider{route: route}, nil
}

// ParseResponse converts a Directions API JSON body to a route.
func ParseResponse(data []byte) (*navigation.Route, error) {
	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", navigation.ErrRouteUnavailable, err)
	}
	return parsed.toRoute()
}

func (p *StaticProvider) Route(ctx context.Context, _ Request) (*navigation.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.route == nil {
		return nil, fmt.Errorf("%w: no route loaded", navigation.ErrRouteUnavailable)
	}
	return p.route, nil
}
