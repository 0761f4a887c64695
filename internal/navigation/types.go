package navigation

import "time"

// LatLng is a WGS84 coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position is a single geolocation sample. Accuracy is in meters; zero means unknown.
type Position struct {
	LatLng
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Step is one maneuver of a leg. Instruction may carry HTML markup.
type Step struct {
	Instruction     string   `json:"instruction"`
	StartLocation   LatLng   `json:"startLocation"`
	EndLocation     LatLng   `json:"endLocation"`
	DistanceMeters  float64  `json:"distanceMeters"`
	DurationSeconds float64  `json:"durationSeconds"`
	Maneuver        string   `json:"maneuver,omitempty"`
	Path            []LatLng `json:"path,omitempty"`
}

// Leg is an origin to destination segment. Aggregates are for display only.
type Leg struct {
	Steps           []Step  `json:"steps"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceText    string  `json:"distanceText,omitempty"`
	DurationText    string  `json:"durationText,omitempty"`
	StartAddress    string  `json:"startAddress,omitempty"`
	EndAddress      string  `json:"endAddress,omitempty"`
}

// Route is an immutable directions result. Only the first leg is navigated.
type Route struct {
	Summary         string   `json:"summary,omitempty"`
	DestinationName string   `json:"destinationName,omitempty"`
	Legs            []Leg    `json:"legs"`
	Overview        []LatLng `json:"overview,omitempty"`
}

// Steps returns the steps of the navigated leg.
func (r *Route) Steps() []Step {
	if r == nil || len(r.Legs) == 0 {
		return nil
	}
	return r.Legs[0].Steps
}

// WithDestination returns a shallow copy of the route labelled with the given destination name.
func (r *Route) WithDestination(name string) *Route {
	if r == nil {
		return nil
	}
	labelled := *r
	labelled.DestinationName = name
	return &labelled
}

// TravelMode selects how the route provider should route.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

// ParseTravelMode maps a request value to a TravelMode. Empty defaults to driving.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch TravelMode(s) {
	case "":
		return TravelModeDriving, true
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
		return TravelMode(s), true
	}
	switch s {
	case "DRIVING":
		return TravelModeDriving, true
	case "WALKING":
		return TravelModeWalking, true
	case "BICYCLING":
		return TravelModeBicycling, true
	case "TRANSIT":
		return TravelModeTransit, true
	}
	return "", false
}

// Sample is one event from a geolocation feed: either a position or an error.
type Sample struct {
	Position Position
	Err      *GeolocationError
}
