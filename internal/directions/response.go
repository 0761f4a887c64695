package directions

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"campusnav.org/internal/navigation"
)

// The types below follow the Directions API JSON layout.

type apiResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Routes       []apiRoute `json:"routes"`
}

type apiRoute struct {
	Summary          string      `json:"summary"`
	Legs             []apiLeg    `json:"legs"`
	OverviewPolyline apiPolyline `json:"overview_polyline"`
}

type apiLeg struct {
	Distance      apiValue  `json:"distance"`
	Duration      apiValue  `json:"duration"`
	StartAddress  string    `json:"start_address"`
	EndAddress    string    `json:"end_address"`
	StartLocation apiLatLng `json:"start_location"`
	EndLocation   apiLatLng `json:"end_location"`
	Steps         []apiStep `json:"steps"`
}

type apiStep struct {
	HTMLInstructions string      `json:"html_instructions"`
	Distance         apiValue    `json:"distance"`
	Duration         apiValue    `json:"duration"`
	StartLocation    apiLatLng   `json:"start_location"`
	EndLocation      apiLatLng   `json:"end_location"`
	Maneuver         string      `json:"maneuver,omitempty"`
	Polyline         apiPolyline `json:"polyline"`
}

type apiValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type apiLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type apiPolyline struct {
	Points string `json:"points"`
}

func (p apiLatLng) toLatLng() navigation.LatLng {
	return navigation.LatLng{Lat: p.Lat, Lng: p.Lng}
}

// toRoute converts the first route of a response.
func (r *apiResponse) toRoute() (*navigation.Route, error) {
	if r.Status != "OK" {
		if r.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: status %s: %s", navigation.ErrRouteUnavailable, r.Status, r.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: status %s", navigation.ErrRouteUnavailable, r.Status)
	}
	if len(r.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes returned", navigation.ErrRouteUnavailable)
	}

	src := r.Routes[0]
	route := &navigation.Route{Summary: src.Summary}

	overview, err := decodePath(src.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("%w: overview polyline: %v", navigation.ErrRouteUnavailable, err)
	}
	route.Overview = overview

	for _, l := range src.Legs {
		leg := navigation.Leg{
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
			DistanceText:    l.Distance.Text,
			DurationText:    l.Duration.Text,
			StartAddress:    l.StartAddress,
			EndAddress:      l.EndAddress,
			Steps:           make([]navigation.Step, 0, len(l.Steps)),
		}
		for i, s := range l.Steps {
			path, err := decodePath(s.Polyline.Points)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d polyline: %v", navigation.ErrRouteUnavailable, i, err)
			}
			leg.Steps = append(leg.Steps, navigation.Step{
				Instruction:     s.HTMLInstructions,
				StartLocation:   s.StartLocation.toLatLng(),
				EndLocation:     s.EndLocation.toLatLng(),
				DistanceMeters:  s.Distance.Value,
				DurationSeconds: s.Duration.Value,
				Maneuver:        s.Maneuver,
				Path:            path,
			})
		}
		route.Legs = append(route.Legs, leg)
	}
	return route, nil
}

func decodePath(points string) ([]navigation.LatLng, error) {
	if points == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(points))
	if err != nil {
		return nil, err
	}
	path := make([]navigation.LatLng, 0, len(coords))
	for _, c := range coords {
		path = append(path, navigation.LatLng{Lat: c[0], Lng: c[1]})
	}
	return path, nil
}

// EncodePath encodes a path as a polyline string.
func EncodePath(path []navigation.LatLng) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}
