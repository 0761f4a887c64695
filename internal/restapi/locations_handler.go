package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"campusnav.org/internal/locationdb"
	"campusnav.org/internal/models"
	"campusnav.org/internal/utils"
)

func (api *RestAPI) locationsHandler(w http.ResponseWriter, r *http.Request) {
	query, err := utils.ValidateAndSanitizeQuery(r.URL.Query().Get("q"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"q": {err.Error()}})
		return
	}

	locations, err := api.Locations.ListLocations(r.Context(), query)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.Location, 0, len(locations))
	for _, loc := range locations {
		list = append(list, toLocationModel(loc))
	}
	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}

func (api *RestAPI) locationHandler(w http.ResponseWriter, r *http.Request) {
	id, fieldErrors := parseLocationID("id", utils.ExtractIDFromParams(r, "id"))
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	loc, err := api.Locations.GetLocation(r.Context(), id)
	if errors.Is(err, locationdb.ErrNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(toLocationModel(loc), models.NewEmptyReferences()))
}

// parseLocationID validates a location id and reports problems under field.
func parseLocationID(field, raw string) (int64, map[string][]string) {
	if err := utils.ValidateID(raw); err != nil {
		return 0, map[string][]string{field: {err.Error()}}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, map[string][]string{field: {"id must be a positive integer"}}
	}
	return id, nil
}

func toLocationModel(loc locationdb.Location) models.Location {
	return models.NewLocation(loc.ID, loc.Name, loc.Lat, loc.Lng, loc.Description, loc.ImageURL, loc.CreatedAt)
}
