package restapi

import (
	"encoding/json"
	"io"
	"net/http"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/models"
)

// sendResponse writes the envelope with its code as the HTTP status.
func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(w)
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.logger(r), "failed to encode response", err)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewResponse(http.StatusNotFound, nil, "resource not found"))
}

// sendGeoJSON writes a GeoJSON document without the envelope so map
// libraries can load it directly.
func (api *RestAPI) sendGeoJSON(w http.ResponseWriter, r *http.Request, doc interface{}) {
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		logging.LogError(api.logger(r), "failed to encode geojson", err)
	}
}

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

func encodeJSON(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}
