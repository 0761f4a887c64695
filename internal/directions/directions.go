// Package directions fetches routes for the navigation tracker.
package directions

import (
	"context"
	"fmt"

	"campusnav.org/internal/navigation"
)

// Request describes a route lookup.
type Request struct {
	Origin      navigation.LatLng
	Destination navigation.LatLng
	Mode        navigation.TravelMode
}

// Key identifies a request for caching. Coordinates are rounded to about a
// meter so jittery origins still share an entry.
func (r Request) Key() string {
	mode := r.Mode
	if mode == "" {
		mode = navigation.TravelModeDriving
	}
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s",
		r.Origin.Lat, r.Origin.Lng, r.Destination.Lat, r.Destination.Lng, mode)
}

// Provider produces a route for a request. Failures wrap
// navigation.ErrRouteUnavailable.
type Provider interface {
	Route(ctx context.Context, req Request) (*navigation.Route, error)
}
