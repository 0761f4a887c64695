package utils

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var (
	// Alphanumeric plus underscore, hyphen and dot; covers numeric location
	// ids and uuid session ids.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Injection-looking fragments in free text search.
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID checks that an identifier is non-empty, short and made of safe characters.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateQuery checks a location name search string. Empty is allowed.
func ValidateQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

func ValidateLongitude(lng float64) error {
	if math.IsNaN(lng) || lng < -180.0 || lng > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateAccuracy checks a reported geolocation accuracy in meters.
func ValidateAccuracy(accuracy float64) error {
	if math.IsNaN(accuracy) || accuracy < 0 {
		return errors.New("accuracy must be non-negative")
	}
	return nil
}

// ValidateCoordinates validates a lat/lng pair and records failures under
// "<field>.lat" and "<field>.lng".
func ValidateCoordinates(field string, lat, lng float64, fieldErrors map[string][]string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	prefix := ""
	if field != "" {
		prefix = field + "."
	}

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors[prefix+"lat"] = append(fieldErrors[prefix+"lat"], err.Error())
	}
	if err := ValidateLongitude(lng); err != nil {
		fieldErrors[prefix+"lng"] = append(fieldErrors[prefix+"lng"], err.Error())
	}

	return fieldErrors
}

// SanitizeInput removes HTML tags and surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(input, ""))
}

// ValidateAndSanitizeQuery validates then sanitizes a search query.
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
