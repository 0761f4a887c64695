package app

import (
	"log/slog"

	"campusnav.org/internal/appconf"
	"campusnav.org/internal/directions"
	"campusnav.org/internal/locationdb"
	"campusnav.org/internal/session"
)

// Application holds the dependencies shared by the HTTP handlers.
type Application struct {
	Config     appconf.Config
	Logger     *slog.Logger
	Locations  *locationdb.Client
	Directions directions.Provider
	Sessions   *session.Manager
}
