package navigation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRoute is returned by Start when the route has no navigable step.
	ErrEmptyRoute = errors.New("route has no steps")
	// ErrRouteUnavailable is wrapped by route providers when no route could be produced.
	ErrRouteUnavailable = errors.New("route unavailable")
	// ErrSpeechUnavailable is returned by speakers that cannot produce audio.
	ErrSpeechUnavailable = errors.New("speech unavailable")
)

// GeolocationErrorCode mirrors the browser geolocation error codes.
type GeolocationErrorCode int

const (
	PermissionDenied    GeolocationErrorCode = 1
	PositionUnavailable GeolocationErrorCode = 2
	Timeout             GeolocationErrorCode = 3
)

func (c GeolocationErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission-denied"
	case PositionUnavailable:
		return "position-unavailable"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ParseGeolocationErrorCode accepts either the symbolic name or the numeric browser code.
func ParseGeolocationErrorCode(s string) (GeolocationErrorCode, bool) {
	switch s {
	case "permission-denied", "1":
		return PermissionDenied, true
	case "position-unavailable", "2":
		return PositionUnavailable, true
	case "timeout", "3":
		return Timeout, true
	}
	return 0, false
}

// GeolocationError is reported by a position source instead of a sample.
type GeolocationError struct {
	Code    GeolocationErrorCode
	Message string
}

func (e *GeolocationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geolocation error: %s", e.Code)
	}
	return fmt.Sprintf("geolocation error: %s: %s", e.Code, e.Message)
}
