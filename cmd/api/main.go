package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusnav.org/internal/app"
	"campusnav.org/internal/appconf"
	"campusnav.org/internal/directions"
	"campusnav.org/internal/locationdb"
	"campusnav.org/internal/logging"
	"campusnav.org/internal/navigation"
	"campusnav.org/internal/restapi"
	"campusnav.org/internal/session"
)

// flags holds command line values. Only flags that were set override the
// loaded configuration.
type flags struct {
	configFile string
	envFile    string
	port       int
	env        string
	apiKeys    string
	dbPath     string
	seedFile   string
	routeFile  string
	logLevel   string
}

func main() {
	var f flags
	flag.StringVar(&f.configFile, "config", "", "Path to a YAML config file")
	flag.StringVar(&f.envFile, "env-file", ".env", "Path to a .env file")
	flag.IntVar(&f.port, "port", 4000, "API server port")
	flag.StringVar(&f.env, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&f.apiKeys, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.StringVar(&f.dbPath, "db", "campusnav.db", "Path to the SQLite location database")
	flag.StringVar(&f.seedFile, "seed", "", "JSON file of locations imported into an empty database")
	flag.StringVar(&f.routeFile, "route-file", "", "Serve this saved directions response instead of calling the API")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func loadConfig(f flags) (appconf.Config, error) {
	cfg, err := appconf.Load(appconf.LoadOptions{ConfigFile: f.configFile, EnvFile: f.envFile})
	if err != nil {
		return appconf.Config{}, err
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Port = f.port
		case "env":
			cfg.Env = appconf.EnvFlagToEnvironment(f.env)
		case "api-keys":
			cfg.ApiKeys = appconf.SplitList(f.apiKeys)
		case "db":
			cfg.DatabasePath = f.dbPath
		case "seed":
			cfg.SeedFile = f.seedFile
		case "route-file":
			cfg.RouteFile = f.routeFile
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	return cfg, cfg.Validate()
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locations, err := locationdb.NewClient(locationdb.Config{DBPath: cfg.DatabasePath, Env: cfg.Env, Logger: logger})
	if err != nil {
		return fmt.Errorf("opening location database: %w", err)
	}
	defer logging.SafeCloseWithLogging(locations, logger, "location_database")

	if err := seedLocations(ctx, locations, cfg.SeedFile, logger); err != nil {
		return err
	}

	provider, closeProvider, err := newDirectionsProvider(cfg, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	sessions := session.NewManager(session.Config{
		IdleTimeout:      cfg.SessionIdleTimeout,
		PreAnnounceDelay: cfg.PreAnnounceDelay,
		Voice:            navigation.Voice{Volume: cfg.VoiceVolume, Rate: cfg.VoiceRate},
		Logger:           logger,
	})
	defer sessions.Shutdown()

	api := restapi.NewRestAPI(&app.Application{
		Config:     cfg,
		Logger:     logger,
		Locations:  locations,
		Directions: provider,
		Sessions:   sessions,
	})
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.DirectionsTimeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// seedLocations imports the seed file when the database has no locations yet.
func seedLocations(ctx context.Context, locations *locationdb.Client, seedFile string, logger *slog.Logger) error {
	if seedFile == "" {
		return nil
	}
	count, err := locations.CountLocations(ctx)
	if err != nil {
		return fmt.Errorf("counting locations: %w", err)
	}
	if count > 0 {
		logger.Info("location database already populated", "locations", count)
		return nil
	}
	imported, err := locations.ImportFromFile(ctx, seedFile)
	if err != nil {
		return fmt.Errorf("importing %s: %w", seedFile, err)
	}
	logging.LogOperation(logger, "locations_seeded",
		slog.String("file", seedFile),
		slog.Int("count", imported))
	return nil
}

func newDirectionsProvider(cfg appconf.Config, logger *slog.Logger) (directions.Provider, func(), error) {
	var next directions.Provider
	if cfg.RouteFile != "" {
		static, err := directions.LoadStaticProvider(cfg.RouteFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading route file: %w", err)
		}
		logger.Info("serving saved route", "file", cfg.RouteFile)
		next = static
	} else {
		if cfg.GoogleMapsAPIKey == "" {
			logger.Warn("GOOGLE_MAPS_API_KEY is not set; directions requests will fail")
		}
		client := directions.NewGoogleClient(cfg.GoogleMapsAPIKey, cfg.DirectionsTimeout, logger)
		if cfg.DirectionsBaseURL != "" {
			client.BaseURL = cfg.DirectionsBaseURL
		}
		next = client
	}

	if cfg.DirectionsCacheTTL <= 0 {
		return next, func() {}, nil
	}
	cached := directions.NewCachingProvider(next, cfg.DirectionsCacheTTL, logger)
	return cached, cached.Close, nil
}
