package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (api *RestAPI) validateAPIKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		next(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", api.validateAPIKey(api.currentTimeHandler))

	router.Handler(http.MethodGet, "/api/locations.json", api.validateAPIKey(api.locationsHandler))
	router.Handler(http.MethodGet, "/api/locations/:id", api.validateAPIKey(api.locationHandler))

	router.Handler(http.MethodPost, "/api/directions", api.validateAPIKey(api.directionsHandler))

	router.Handler(http.MethodPost, "/api/navigation/sessions", api.validateAPIKey(api.createSessionHandler))
	router.Handler(http.MethodGet, "/api/navigation/sessions/:id", api.validateAPIKey(api.sessionHandler))
	router.Handler(http.MethodDelete, "/api/navigation/sessions/:id", api.validateAPIKey(api.stopSessionHandler))
	router.Handler(http.MethodPost, "/api/navigation/sessions/:id/positions", api.validateAPIKey(api.positionHandler))
	router.Handler(http.MethodPost, "/api/navigation/sessions/:id/voice", api.validateAPIKey(api.toggleVoiceHandler))
	router.Handler(http.MethodGet, "/api/navigation/sessions/:id/announcement", api.validateAPIKey(api.announcementHandler))
	router.Handler(http.MethodGet, "/api/navigation/sessions/:id/route.geojson", api.validateAPIKey(api.sessionRouteHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
}
