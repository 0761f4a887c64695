package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, code int, text string) {
	setJSONResponseType(w)
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(errorResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     models.ResponseVersion,
	})
	if err != nil {
		logging.LogError(api.logger(r), "failed to encode error response", err)
	}
}

// invalidAPIKeyResponse sends a 401 for a missing or unknown key.
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(r), "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	api.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// routeUnavailableResponse sends a 502 when the directions provider could not route.
func (api *RestAPI) routeUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.logger(r).Warn("route unavailable", slog.String("error", err.Error()))
	api.writeError(w, r, http.StatusBadGateway, "route unavailable")
}

func (api *RestAPI) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func (api *RestAPI) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusServiceUnavailable, "service shutting down")
}

// validationErrorResponse sends a 400 with errors keyed by field.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	setJSONResponseType(w)
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{FieldErrors: fieldErrors})
	if err != nil {
		logging.LogError(api.logger(r), "failed to encode validation error response", err)
	}
}

func (api *RestAPI) logger(r *http.Request) *slog.Logger {
	if r != nil {
		if l := logging.FromContext(r.Context()); l != slog.Default() {
			return l
		}
	}
	if api.Logger != nil {
		return api.Logger
	}
	return slog.Default()
}
