package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"campusnav.org/internal/directions"
	"campusnav.org/internal/locationdb"
	"campusnav.org/internal/models"
	"campusnav.org/internal/navigation"
	"campusnav.org/internal/utils"
)

const maxBodyBytes = 64 << 10

type latLngBody struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type routeRequestBody struct {
	Origin        *latLngBody `json:"origin"`
	Destination   *latLngBody `json:"destination"`
	DestinationID string      `json:"destinationId"`
	TravelMode    string      `json:"travelMode"`
	VoiceEnabled  *bool       `json:"voiceEnabled"`
}

// routeRequest is a validated directions request plus what the caller knows
// about the destination.
type routeRequest struct {
	directions.Request
	DestinationName string
	Location        *locationdb.Location
	VoiceEnabled    bool
}

// decodeJSONBody reads a size-limited JSON body into v. The returned field
// errors are keyed by "body".
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) map[string][]string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "request body must be valid JSON"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is required"
		case errors.As(err, &maxErr):
			msg = "request body too large"
		default:
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		return map[string][]string{"body": {msg}}
	}
	return nil
}

func (b *latLngBody) validate(field string, fieldErrors map[string][]string) (navigation.LatLng, map[string][]string) {
	if b == nil || b.Lat == nil || b.Lng == nil {
		fieldErrors[field] = append(fieldErrors[field], field+" requires lat and lng")
		return navigation.LatLng{}, fieldErrors
	}
	fieldErrors = utils.ValidateCoordinates(field, *b.Lat, *b.Lng, fieldErrors)
	return navigation.LatLng{Lat: *b.Lat, Lng: *b.Lng}, fieldErrors
}

// parseRouteRequest decodes and validates a directions or session body. A
// destinationId is resolved against the location database.
func (api *RestAPI) parseRouteRequest(w http.ResponseWriter, r *http.Request) (*routeRequest, map[string][]string, error) {
	var body routeRequestBody
	if fieldErrors := decodeJSONBody(w, r, &body); fieldErrors != nil {
		return nil, fieldErrors, nil
	}

	fieldErrors := map[string][]string{}
	req := &routeRequest{VoiceEnabled: true}
	if body.VoiceEnabled != nil {
		req.VoiceEnabled = *body.VoiceEnabled
	}

	req.Origin, fieldErrors = body.Origin.validate("origin", fieldErrors)

	mode, ok := navigation.ParseTravelMode(body.TravelMode)
	if !ok {
		fieldErrors["travelMode"] = []string{"travelMode must be one of driving, walking, bicycling, transit"}
	}
	req.Mode = mode

	switch {
	case body.DestinationID != "":
		id, idErrors := parseLocationID("destinationId", body.DestinationID)
		if idErrors != nil {
			for k, v := range idErrors {
				fieldErrors[k] = v
			}
			break
		}
		loc, err := api.Locations.GetLocation(r.Context(), id)
		if errors.Is(err, locationdb.ErrNotFound) {
			fieldErrors["destinationId"] = []string{"unknown location"}
			break
		}
		if err != nil {
			return nil, nil, err
		}
		req.Location = &loc
		req.DestinationName = loc.Name
		req.Request.Destination = navigation.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	case body.Destination != nil:
		req.Request.Destination, fieldErrors = body.Destination.validate("destination", fieldErrors)
	default:
		fieldErrors["destination"] = []string{"destination or destinationId is required"}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}
	return req, nil, nil
}

// fetchRoute asks the provider for a route and labels it with the destination.
func (api *RestAPI) fetchRoute(r *http.Request, req *routeRequest) (*navigation.Route, error) {
	route, err := api.Directions.Route(r.Context(), req.Request)
	if err != nil {
		return nil, err
	}
	name := req.DestinationName
	if name == "" && len(route.Legs) > 0 {
		name = route.Legs[0].EndAddress
	}
	return route.WithDestination(name), nil
}

func referencesFor(req *routeRequest) models.ReferencesModel {
	refs := models.NewEmptyReferences()
	if req.Location != nil {
		refs.Locations = append(refs.Locations, toLocationModel(*req.Location))
	}
	return refs
}
