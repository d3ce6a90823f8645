package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"event-catalog/core/cache"
	"event-catalog/core/database"
	"event-catalog/feature/events"
	"event-catalog/feature/events/models"
	"event-catalog/feature/events/parser"
	"event-catalog/feature/events/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	events []models.Event
	err    error
	calls  int32
}

func (f *fakeFinder) FindEventsInRange(context.Context, time.Time, time.Time) ([]models.Event, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.events, f.err
}

func at(day, hour int) time.Time {
	return time.Date(2021, 6, day, hour, 0, 0, 0, time.UTC)
}

func sampleEvent() models.Event {
	return models.Event{
		ID:    "e-1",
		Title: "Camela en concierto",
		Plans: []models.EventPlan{
			{StartDate: at(30, 21), EndDate: at(30, 22), Zones: []models.Zone{{Price: 20}, {Price: 15}}},
			{StartDate: at(10, 20), EndDate: at(10, 21), Zones: []models.Zone{{Price: 30}}},
		},
	}
}

func newApp(t *testing.T, finder events.Finder, c *cache.Cache) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, events.NewFeature(finder, c, nil).Load(app))
	return app
}

func search(t *testing.T, app *fiber.App, startsAt, endsAt string) (int, events.SearchResponse) {
	t.Helper()
	q := url.Values{}
	if startsAt != "" {
		q.Set("starts_at", startsAt)
	}
	if endsAt != "" {
		q.Set("ends_at", endsAt)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/search?"+q.Encode(), nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out events.SearchResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestSummarize(t *testing.T) {
	s := events.Summarize(sampleEvent())

	assert.Equal(t, "e-1", s.ID)
	assert.Equal(t, "2021-06-10", s.StartDate)
	assert.Equal(t, "20:00:00", s.StartTime)
	assert.Equal(t, "2021-06-30", s.EndDate)
	assert.Equal(t, "22:00:00", s.EndTime)
	require.NotNil(t, s.MinPrice)
	require.NotNil(t, s.MaxPrice)
	assert.Equal(t, 15.0, *s.MinPrice)
	assert.Equal(t, 30.0, *s.MaxPrice)
}

func TestSummarize_NoZones(t *testing.T) {
	s := events.Summarize(models.Event{ID: "e", Plans: []models.EventPlan{{StartDate: at(1, 0), EndDate: at(1, 1)}}})
	assert.Nil(t, s.MinPrice)
	assert.Nil(t, s.MaxPrice)
	assert.Equal(t, "2021-06-01", s.StartDate)
}

func TestHandleSearch_Success(t *testing.T) {
	app := newApp(t, &fakeFinder{events: []models.Event{sampleEvent()}}, nil)

	status, out := search(t, app, "2021-06-01T00:00:00Z", "2021-07-31T00:00:00Z")
	assert.Equal(t, 200, status)
	assert.Nil(t, out.Error)
	require.NotNil(t, out.Data)
	require.Len(t, out.Data.Events, 1)
	assert.Equal(t, "Camela en concierto", out.Data.Events[0].Title)
}

func TestHandleSearch_EmptyResultIsList(t *testing.T) {
	app := newApp(t, &fakeFinder{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/search?starts_at=2021-06-01T00:00:00Z&ends_at=2021-06-02T00:00:00Z", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"data":{"events":[]},"error":null}`, string(body))
}

func TestHandleSearch_InvalidRequests(t *testing.T) {
	finder := &fakeFinder{}
	app := newApp(t, finder, nil)

	tests := []struct {
		name     string
		startsAt string
		endsAt   string
		message  string
	}{
		{"MissingStart", "", "2021-06-02T00:00:00Z", "required"},
		{"MissingEnd", "2021-06-01T00:00:00Z", "", "required"},
		{"BadStart", "yesterday", "2021-06-02T00:00:00Z", "starts_at"},
		{"BadEnd", "2021-06-01T00:00:00Z", "2021-13-01", "ends_at"},
		{"Equal", "2021-06-01T00:00:00Z", "2021-06-01T00:00:00Z", "after"},
		{"Reversed", "2021-06-02T00:00:00Z", "2021-06-01T00:00:00Z", "after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := search(t, app, tt.startsAt, tt.endsAt)
			assert.Equal(t, 400, status)
			assert.Nil(t, out.Data)
			require.NotNil(t, out.Error)
			assert.Equal(t, "invalid_request", out.Error.Code)
			assert.Contains(t, out.Error.Message, tt.message)
		})
	}
	assert.Zero(t, atomic.LoadInt32(&finder.calls))
}

func TestHandleSearch_StoreFailure(t *testing.T) {
	app := newApp(t, &fakeFinder{err: errors.New("gone away")}, nil)

	status, out := search(t, app, "2021-06-01T00:00:00Z", "2021-06-02T00:00:00Z")
	assert.Equal(t, 500, status)
	require.NotNil(t, out.Error)
	assert.Equal(t, "internal_error", out.Error.Code)
	assert.NotContains(t, out.Error.Message, "gone away")
}

func TestService_Search_UsesCache(t *testing.T) {
	finder := &fakeFinder{events: []models.Event{sampleEvent()}}
	c := cache.NewWithStore(cache.NewMemoryStore(), time.Minute, nil)
	svc := events.NewService(finder, c, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.Search(ctx, at(1, 0), at(30, 0))
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&finder.calls))

	_, err := svc.Search(ctx, at(2, 0), at(30, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&finder.calls))

	require.NoError(t, c.Purge(ctx))
	_, err = svc.Search(ctx, at(1, 0), at(30, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&finder.calls))
}

func TestFeature_DisabledWithoutFinder(t *testing.T) {
	f := events.NewFeature(nil, nil, nil)
	assert.Equal(t, "events", f.Name())
	assert.False(t, f.IsEnabled())
	assert.True(t, events.NewFeature(&fakeFinder{}, nil, nil).IsEnabled())
}

func TestSearch_EndToEnd(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: fmt.Sprintf("file:events_%d?mode=memory&cache=shared", time.Now().UnixNano())})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	document, err := os.ReadFile("parser/testdata/valid_sample.xml")
	require.NoError(t, err)
	parsed, err := parser.New(nil).Parse(string(document), "fever_first_provider")
	require.NoError(t, err)

	repo := repository.New(db, nil)
	_, err = repo.Upsert(context.Background(), parsed, "fever_first_provider")
	require.NoError(t, err)

	app := newApp(t, repo, cache.NewWithStore(cache.NewMemoryStore(), time.Minute, nil))
	status, out := search(t, app, "2021-06-01T00:00:00Z", "2021-07-31T00:00:00Z")
	require.Equal(t, 200, status)
	require.Len(t, out.Data.Events, 1)

	summary := out.Data.Events[0]
	assert.Equal(t, "Camela en concierto", summary.Title)
	assert.Equal(t, "2021-06-30", summary.StartDate)
	assert.Equal(t, "21:00:00", summary.StartTime)
	require.NotNil(t, summary.MinPrice)
	require.NotNil(t, summary.MaxPrice)
	assert.Equal(t, 15.0, *summary.MinPrice)
	assert.Equal(t, 30.0, *summary.MaxPrice)
}
