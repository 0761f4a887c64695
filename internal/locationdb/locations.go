package locationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusnav.org/internal/logging"
)

// Location is a named point on campus.
type Location struct {
	ID          int64
	Name        string
	Lat         float64
	Lng         float64
	Description string
	ImageURL    string
	CreatedAt   time.Time
}

const selectColumns = `SELECT id, name, lat, lng, description, image_url, created_at FROM locations`

// InsertLocation stores the given locations in one transaction and sets
// their ids. CreatedAt defaults to now.
func (c *Client) InsertLocation(ctx context.Context, locations ...*Location) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "insert_locations")

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO locations (name, lat, lng, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, c.logger, "insert_locations_stmt")

	now := time.Now()
	for _, loc := range locations {
		if loc.CreatedAt.IsZero() {
			loc.CreatedAt = now
		}
		res, err := stmt.ExecContext(ctx, loc.Name, loc.Lat, loc.Lng, loc.Description, loc.ImageURL, loc.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("error inserting location %q: %w", loc.Name, err)
		}
		if loc.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("error reading location id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// ListLocations returns locations whose name contains query, ignoring case.
// An empty query lists everything.
func (c *Client) ListLocations(ctx context.Context, query string) ([]Location, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if query == "" {
		rows, err = c.DB.QueryContext(ctx, selectColumns+` ORDER BY name COLLATE NOCASE, id`)
	} else {
		rows, err = c.DB.QueryContext(ctx,
			selectColumns+` WHERE name LIKE ? ESCAPE '\' ORDER BY name COLLATE NOCASE, id`,
			"%"+escapeLike(query)+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("error querying locations: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_locations_rows")

	var locations []Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading locations: %w", err)
	}
	return locations, nil
}

// GetLocation returns one location or ErrNotFound.
func (c *Client) GetLocation(ctx context.Context, id int64) (Location, error) {
	row := c.DB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	return loc, err
}

// CountLocations returns the number of stored locations.
func (c *Client) CountLocations(ctx context.Context) (int, error) {
	var n int
	err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(s scanner) (Location, error) {
	var (
		loc       Location
		createdAt int64
	)
	err := s.Scan(&loc.ID, &loc.Name, &loc.Lat, &loc.Lng, &loc.Description, &loc.ImageURL, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Location{}, err
		}
		return Location{}, fmt.Errorf("error scanning location: %w", err)
	}
	loc.CreatedAt = time.UnixMilli(createdAt)
	return loc, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
