package utils

import (
	"math"
)

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingBetweenPoints returns the initial bearing in degrees [0, 360) from
// the first point toward the second.
func BearingBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// BearingToCompass maps a bearing to one of eight compass points.
func BearingToCompass(bearing float64) string {
	return compassPoints[int((bearing+22.5)/45.0)%8]
}

// CompassDirection is the compass point from the first point toward the second.
// Identical points have no direction and return "".
func CompassDirection(lat1, lon1, lat2, lon2 float64) string {
	if lat1 == lat2 && lon1 == lon2 {
		return ""
	}
	return BearingToCompass(BearingBetweenPoints(lat1, lon1, lat2, lon2))
}
