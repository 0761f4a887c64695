package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campusnav.org/internal/models"
	"campusnav.org/internal/navigation"
	"campusnav.org/internal/session"
	"campusnav.org/internal/utils"
)

type positionBody struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp int64    `json:"timestamp"`
	Error     string   `json:"error"`
	Message   string   `json:"message"`
}

func (api *RestAPI) createSessionHandler(w http.ResponseWriter, r *http.Request) {
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

	initial := navigation.Position{LatLng: req.Origin, Timestamp: time.Now()}
	s, err := api.Sessions.Create(route, initial, req.VoiceEnabled)
	switch {
	case errors.Is(err, navigation.ErrEmptyRoute):
		api.routeUnavailableResponse(w, r, err)
		return
	case errors.Is(err, session.ErrClosed):
		api.serviceUnavailableResponse(w, r)
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := models.NewSessionEntry(s.ID, s.CreatedAt, s.Tracker.Status())
	routeEntry := models.NewRouteEntry(route)
	entry.Route = &routeEntry

	response := models.NewEntryResponse(entry, referencesFor(req))
	response.Code = http.StatusCreated
	w.Header().Set("Location", "/api/navigation/sessions/"+s.ID)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := api.lookupSession(w, r)
	if !ok {
		return
	}
	api.sendSessionStatus(w, r, s)
}

func (api *RestAPI) stopSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.sessionID(w, r)
	if !ok {
		return
	}
	s, ok := api.Sessions.Stop(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendSessionStatus(w, r, s)
}

func (api *RestAPI) positionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := api.lookupSession(w, r)
	if !ok {
		return
	}

	var body positionBody
	if fieldErrors := decodeJSONBody(w, r, &body); fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if body.Error != "" {
		code, ok := navigation.ParseGeolocationErrorCode(body.Error)
		if !ok {
			api.validationErrorResponse(w, r, map[string][]string{
				"error": {"error must be one of permission-denied, position-unavailable, timeout"},
			})
			return
		}
		s.Tracker.ReportError(&navigation.GeolocationError{Code: code, Message: body.Message})
		api.sendSessionStatus(w, r, s)
		return
	}

	pos, fieldErrors := body.position()
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	s.Tracker.UpdatePosition(pos)
	api.sendSessionStatus(w, r, s)
}

func (b positionBody) position() (navigation.Position, map[string][]string) {
	fieldErrors := map[string][]string{}
	if b.Lat == nil {
		fieldErrors["lat"] = []string{"lat is required"}
	}
	if b.Lng == nil {
		fieldErrors["lng"] = []string{"lng is required"}
	}
	if len(fieldErrors) > 0 {
		return navigation.Position{}, fieldErrors
	}

	fieldErrors = utils.ValidateCoordinates("", *b.Lat, *b.Lng, fieldErrors)
	pos := navigation.Position{
		LatLng:    navigation.LatLng{Lat: *b.Lat, Lng: *b.Lng},
		Timestamp: time.Now(),
	}
	if b.Accuracy != nil {
		if err := utils.ValidateAccuracy(*b.Accuracy); err != nil {
			fieldErrors["accuracy"] = []string{err.Error()}
		}
		pos.Accuracy = *b.Accuracy
	}
	if b.Timestamp > 0 {
		pos.Timestamp = time.UnixMilli(b.Timestamp)
	}
	return pos, fieldErrors
}

func (api *RestAPI) toggleVoiceHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := api.lookupSession(w, r)
	if !ok {
		return
	}
	s.Tracker.ToggleVoice()
	api.sendSessionStatus(w, r, s)
}

func (api *RestAPI) announcementHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := api.lookupSession(w, r)
	if !ok {
		return
	}

	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		var err error
		after, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			api.validationErrorResponse(w, r, map[string][]string{"after": {"after must be a non-negative integer"}})
			return
		}
	}

	a, ok := s.Outbox.Latest(after)
	if !ok {
		api.sendResponse(w, r, models.NewOKResponse(nil))
		return
	}
	entry := models.NewAnnouncement(a.Seq, a.Text, a.Volume, a.Rate, a.IssuedAt)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}

func (api *RestAPI) sessionRouteHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := api.lookupSession(w, r)
	if !ok {
		return
	}
	api.sendGeoJSON(w, r, models.NewRouteFeatureCollection(s.Route, s.Tracker.Status().StepIndex))
}

func (api *RestAPI) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return "", false
	}
	return id, true
}

// lookupSession resolves the :id parameter, writing the error response when
// it cannot.
func (api *RestAPI) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := api.sessionID(w, r)
	if !ok {
		return nil, false
	}
	s, ok := api.Sessions.Get(id)
	if !ok {
		api.sendNotFound(w, r)
		return nil, false
	}
	return s, true
}

func (api *RestAPI) sendSessionStatus(w http.ResponseWriter, r *http.Request, s *session.Session) {
	entry := models.NewSessionEntry(s.ID, s.CreatedAt, s.Tracker.Status())
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
