package models

import (
	"github.com/paulmach/orb"

	"campusnav.org/internal/directions"
	"campusnav.org/internal/navigation"
)

// RouteEntry is the navigated leg of a route prepared for display.
type RouteEntry struct {
	Summary          string      `json:"summary,omitempty"`
	DestinationName  string      `json:"destinationName,omitempty"`
	StartAddress     string      `json:"startAddress,omitempty"`
	EndAddress       string      `json:"endAddress,omitempty"`
	DistanceMeters   float64     `json:"distanceMeters"`
	DurationSeconds  float64     `json:"durationSeconds"`
	DistanceText     string      `json:"distanceText,omitempty"`
	DurationText     string      `json:"durationText,omitempty"`
	Steps            []StepEntry `json:"steps"`
	OverviewPolyline string      `json:"overviewPolyline,omitempty"`
	Bounds           *Bounds     `json:"bounds,omitempty"`
}

type StepEntry struct {
	Index           int         `json:"index"`
	Instruction     string      `json:"instruction"`
	HTMLInstruction string      `json:"htmlInstruction"`
	DistanceMeters  float64     `json:"distanceMeters"`
	DurationSeconds float64     `json:"durationSeconds"`
	Maneuver        string      `json:"maneuver,omitempty"`
	Start           Coordinates `json:"start"`
	End             Coordinates `json:"end"`
	Polyline        string      `json:"polyline,omitempty"`
}

// Bounds is the bounding box of the route geometry.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

func NewRouteEntry(route *navigation.Route) RouteEntry {
	entry := RouteEntry{
		Summary:         route.Summary,
		DestinationName: route.DestinationName,
		Steps:           []StepEntry{},
	}
	if len(route.Legs) > 0 {
		leg := route.Legs[0]
		entry.StartAddress = leg.StartAddress
		entry.EndAddress = leg.EndAddress
		entry.DistanceMeters = leg.DistanceMeters
		entry.DurationSeconds = leg.DurationSeconds
		entry.DistanceText = leg.DistanceText
		entry.DurationText = leg.DurationText
	}

	for i, step := range route.Steps() {
		s := StepEntry{
			Index:           i,
			Instruction:     navigation.ParseInstruction(step.Instruction),
			HTMLInstruction: step.Instruction,
			DistanceMeters:  step.DistanceMeters,
			DurationSeconds: step.DurationSeconds,
			Maneuver:        step.Maneuver,
			Start:           Coordinates{Lat: step.StartLocation.Lat, Lng: step.StartLocation.Lng},
			End:             Coordinates{Lat: step.EndLocation.Lat, Lng: step.EndLocation.Lng},
		}
		if len(step.Path) > 0 {
			s.Polyline = directions.EncodePath(step.Path)
		}
		entry.Steps = append(entry.Steps, s)
	}

	if len(route.Overview) > 0 {
		entry.OverviewPolyline = directions.EncodePath(route.Overview)
	}

	if line := RouteLine(route); len(line) > 0 {
		b := line.Bound()
		entry.Bounds = &Bounds{
			MinLat: b.Min.Lat(),
			MinLng: b.Min.Lon(),
			MaxLat: b.Max.Lat(),
			MaxLng: b.Max.Lon(),
		}
	}
	return entry
}

// RouteLine is the best available geometry of the navigated leg: the
// overview polyline, else the step paths, else the step end points.
func RouteLine(route *navigation.Route) orb.LineString {
	if len(route.Overview) > 0 {
		return toLineString(route.Overview)
	}

	steps := route.Steps()
	var line orb.LineString
	for _, step := range steps {
		line = append(line, toLineString(step.Path)...)
	}
	if len(line) > 0 {
		return line
	}

	if len(steps) > 0 {
		line = append(line, toPoint(steps[0].StartLocation))
	}
	for _, step := range steps {
		line = append(line, toPoint(step.EndLocation))
	}
	return line
}

func toLineString(path []navigation.LatLng) orb.LineString {
	line := make(orb.LineString, 0, len(path))
	for _, p := range path {
		line = append(line, toPoint(p))
	}
	return line
}

func toPoint(p navigation.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
