package models

import (
	"github.com/paulmach/orb/geojson"

	"campusnav.org/internal/navigation"
)

// NewRouteFeatureCollection renders a route as a line feature followed by
// one point feature per maneuver.
func NewRouteFeatureCollection(route *navigation.Route, currentStep int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if line := RouteLine(route); len(line) > 1 {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["summary"] = route.Summary
		f.Properties["destination"] = route.DestinationName
		fc.Append(f)
	}

	for i, step := range route.Steps() {
		f := geojson.NewFeature(toPoint(step.EndLocation))
		f.Properties["kind"] = "maneuver"
		f.Properties["index"] = i
		f.Properties["instruction"] = navigation.ParseInstruction(step.Instruction)
		f.Properties["distanceMeters"] = step.DistanceMeters
		f.Properties["current"] = i == currentStep
		fc.Append(f)
	}
	return fc
}
