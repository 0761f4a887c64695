package locationdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnav.org/internal/appconf"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{DBPath: ":memory:", Env: appconf.Test})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seededClient(t *testing.T) *Client {
	t.Helper()
	client := newTestClient(t)
	n, err := client.ImportFromFile(context.Background(), fixturePath("locations.json"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return client
}

func TestNewClientRefusesFileDatabaseInTests(t *testing.T) {
	_, err := NewClient(Config{DBPath: "locations.db", Env: appconf.Test})
	assert.Error(t, err)
}

func TestInsertAndGetLocation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	loc := &Location{Name: "Main Gate", Lat: 6.5158, Lng: 3.3898, Description: "Entrance"}
	require.NoError(t, client.InsertLocation(ctx, loc))
	assert.NotZero(t, loc.ID)
	assert.False(t, loc.CreatedAt.IsZero())

	got, err := client.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Gate", got.Name)
	assert.Equal(t, 6.5158, got.Lat)
	assert.Equal(t, 3.3898, got.Lng)
	assert.Equal(t, "Entrance", got.Description)
	assert.Equal(t, loc.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestGetLocationNotFound(t *testing.T) {
	client := newTestClient(t)
	_, err := client.GetLocation(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLocations(t *testing.T) {
	client := seededClient(t)
	ctx := context.Background()

	all, err := client.ListLocations(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Faculty of Engineering", all[0].Name, "sorted by name")

	tests := []struct {
		query string
		want  []string
	}{
		{"library", []string{"University Library"}},
		{"SENATE", []string{"Senate Building"}},
		{"ing", []string{"Faculty of Engineering", "Senate Building"}},
		{"_100%", []string{"Sports Centre_100%"}},
		{"%", []string{"Sports Centre_100%"}},
		{"cafeteria", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			locations, err := client.ListLocations(ctx, tt.query)
			require.NoError(t, err)
			var names []string
			for _, l := range locations {
				names = append(names, l.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestImportFromFile(t *testing.T) {
	client := seededClient(t)
	ctx := context.Background()

	locations, err := client.ListLocations(ctx, "Library")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "https://example.org/images/library.jpg", locations[0].ImageURL)

	eng, err := client.ListLocations(ctx, "Engineering")
	require.NoError(t, err)
	require.Len(t, eng, 1)
	assert.True(t, eng[0].CreatedAt.Equal(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)))
}

func TestImportFromFileIsAllOrNothing(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.ImportFromFile(ctx, fixturePath("bad_locations.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere")

	n, err := client.CountLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestImportFromMissingFile(t *testing.T) {
	client := newTestClient(t)
	_, err := client.ImportFromFile(context.Background(), fixturePath("missing.json"))
	assert.Error(t, err)
}
