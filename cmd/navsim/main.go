// Command navsim replays a saved directions response through the navigation
// tracker and logs every announcement it would speak.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"campusnav.org/internal/directions"
	"campusnav.org/internal/logging"
	"campusnav.org/internal/navigation"
	"campusnav.org/internal/utils"
)

func main() {
	var (
		routeFile   string
		destination string
		stepMeters  float64
		interval    time.Duration
		delay       time.Duration
		dropAt      int
		logLevel    string
	)
	flag.StringVar(&routeFile, "route", "testdata/campus_route.json", "Saved Directions API response to replay")
	flag.StringVar(&destination, "destination", "", "Destination name used in announcements (defaults to the leg end address)")
	flag.Float64Var(&stepMeters, "step", 15, "Meters travelled between samples")
	flag.DurationVar(&interval, "interval", 250*time.Millisecond, "Wall time between samples")
	flag.DurationVar(&delay, "pre-announce-delay", navigation.DefaultPreAnnounceDelay, "Delay before the next step is announced")
	flag.IntVar(&dropAt, "gps-dropout", 0, "Report a GPS timeout instead of the Nth sample (0 disables)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := logging.NewTextLogger(os.Stdout, level)

	if err := run(logger, routeFile, destination, stepMeters, interval, delay, dropAt); err != nil {
		logging.LogError(logger, "simulation failed", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, routeFile, destination string, stepMeters float64, interval, delay time.Duration, dropAt int) error {
	if stepMeters <= 0 {
		return fmt.Errorf("step must be positive, got %v", stepMeters)
	}

	provider, err := directions.LoadStaticProvider(routeFile)
	if err != nil {
		return err
	}
	route, err := provider.Route(context.Background(), directions.Request{})
	if err != nil {
		return err
	}
	if destination == "" && len(route.Legs) > 0 {
		destination = route.Legs[0].EndAddress
	}
	route = route.WithDestination(destination)

	points := walk(route, stepMeters)
	if len(points) == 0 {
		return navigation.ErrEmptyRoute
	}

	tracker := navigation.NewTracker(navigation.LogSpeaker{Logger: logger},
		navigation.WithLogger(logger),
		navigation.WithPreAnnounceDelay(delay))
	if err := tracker.Start(route, navigation.Position{LatLng: points[0], Timestamp: time.Now()}); err != nil {
		return err
	}
	defer tracker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	samples := make(chan navigation.Sample)
	done := make(chan struct{})
	go func() {
		defer close(done)
		tracker.Follow(ctx, samples)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, p := range points[1:] {
		select {
		case <-ctx.Done():
			close(samples)
			<-done
			return ctx.Err()
		case <-ticker.C:
		}

		sample := navigation.Sample{Position: navigation.Position{LatLng: p, Accuracy: 5, Timestamp: time.Now()}}
		if dropAt > 0 && i+1 == dropAt {
			sample = navigation.Sample{Err: &navigation.GeolocationError{Code: navigation.Timeout, Message: "simulated dropout"}}
		}
		select {
		case samples <- sample:
		case <-done:
		}

		st := tracker.Status()
		logger.Debug("sample",
			slog.Int("n", i+1),
			slog.Int("step", st.StepIndex),
			slog.String("remaining", st.DistanceText))
		if st.Arrived {
			break
		}
	}
	close(samples)
	<-done

	st := tracker.Status()
	logging.LogOperation(logger, "simulation_finished",
		slog.Bool("arrived", st.Arrived),
		slog.Int("step", st.StepIndex),
		slog.Int("steps", st.StepCount))
	return nil
}

// walk returns positions spaced about stepMeters apart along every step, then
// repeats the final point so the tracker sees the arrival.
func walk(route *navigation.Route, stepMeters float64) []navigation.LatLng {
	var points []navigation.LatLng
	for _, step := range route.Steps() {
		path := step.Path
		if len(path) < 2 {
			path = []navigation.LatLng{step.StartLocation, step.EndLocation}
		}
		if len(points) == 0 {
			points = append(points, path[0])
		}
		for i := 1; i < len(path); i++ {
			points = append(points, interpolate(path[i-1], path[i], stepMeters)...)
		}
		// Land exactly on the maneuver point.
		points = append(points, step.EndLocation)
	}
	if len(points) > 0 {
		points = append(points, points[len(points)-1])
	}
	return points
}

// interpolate returns the points after a, excluding b, spaced stepMeters apart.
func interpolate(a, b navigation.LatLng, stepMeters float64) []navigation.LatLng {
	length := utils.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	var out []navigation.LatLng
	for d := stepMeters; d < length; d += stepMeters {
		f := d / length
		out = append(out, navigation.LatLng{
			Lat: a.Lat + (b.Lat-a.Lat)*f,
			Lng: a.Lng + (b.Lng-a.Lng)*f,
		})
	}
	return out
}
