package models

import (
	"strconv"
	"time"
)

// Location is a campus place as exposed by the API.
type Location struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	CreatedAt   int64       `json:"createdAt"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func NewLocation(id int64, name string, lat, lng float64, description, imageURL string, createdAt time.Time) Location {
	return Location{
		ID:          strconv.FormatInt(id, 10),
		Name:        name,
		Coordinates: Coordinates{Lat: lat, Lng: lng},
		Description: description,
		ImageURL:    imageURL,
		CreatedAt:   createdAt.UnixMilli(),
	}
}
