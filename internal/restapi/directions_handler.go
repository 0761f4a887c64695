package restapi

import (
	"errors"
	"net/http"

	"campusnav.org/internal/models"
	"campusnav.org/internal/navigation"
)

func (api *RestAPI) directionsHandler(w http.ResponseWriter, r *http.Request) {
	req, fieldErrors, err := api.parseRouteRequest(w, r)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	route, err := api.fetchRoute(r, req)
	if errors.Is(err, navigation.ErrRouteUnavailable) {
		api.routeUnavailableResponse(w, r, err)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewRouteEntry(route), referencesFor(req)))
}
