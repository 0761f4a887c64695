package locationdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/utils"
)

// seedDocument is the exported shape of a location document.
type seedDocument struct {
	Name        string `json:"name"`
	Coordinates struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"coordinates"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// ImportFromFile loads a JSON array of location documents. Either every
// document is imported or none is.
func (c *Client) ImportFromFile(ctx context.Context, path string) (int, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}

	var docs []seedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	locations := make([]*Location, 0, len(docs))
	for i, doc := range docs {
		loc, err := doc.toLocation()
		if err != nil {
			return 0, fmt.Errorf("seed document %d: %w", i, err)
		}
		locations = append(locations, loc)
	}

	if err := c.InsertLocation(ctx, locations...); err != nil {
		return 0, err
	}

	logging.LogOperation(c.logger, "locations_imported",
		slog.String("path", path),
		slog.Int("count", len(locations)),
		slog.Duration("duration", time.Since(start)))
	return len(locations), nil
}

func (d seedDocument) toLocation() (*Location, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if d.Coordinates.Lat == nil || d.Coordinates.Lng == nil {
		return nil, fmt.Errorf("%s: coordinates are required", name)
	}
	if err := utils.ValidateLatitude(*d.Coordinates.Lat); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := utils.ValidateLongitude(*d.Coordinates.Lng); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	loc := &Location{
		Name:        name,
		Lat:         *d.Coordinates.Lat,
		Lng:         *d.Coordinates.Lng,
		Description: d.Description,
		ImageURL:    d.ImageURL,
	}
	if d.CreatedAt != nil {
		loc.CreatedAt = *d.CreatedAt
	}
	return loc, nil
}
