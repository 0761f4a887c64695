// Package locationdb stores the campus locations users can navigate to.
package locationdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"campusnav.org/internal/appconf"
)

//go:embed schema.sql
var ddl string

// ErrNotFound is returned when no location has the requested id.
var ErrNotFound = errors.New("location not found")

// Config holds the database settings.
type Config struct {
	DBPath string
	Env    appconf.Environment
	Logger *slog.Logger
}

// Client wraps the SQLite location database.
type Client struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database and applies the schema.
func NewClient(config Config) (*Client, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, fmt.Errorf("test databases must be in memory, got %q", config.DBPath)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is its own database.
	if config.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := performDatabaseMigration(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return &Client{
		DB:     db,
		logger: config.Logger.With(slog.String("component", "locationdb")),
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}
