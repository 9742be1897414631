package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mkiyohara/weatherboard/internal/narrative"
	"github.com/mkiyohara/weatherboard/internal/store"
	"github.com/mkiyohara/weatherboard/internal/weather"
)

// fakeStore serves canned raw readings per date key.
type fakeStore struct {
	days map[string][]weather.RawReading
	errs map[string]error
}

func (f *fakeStore) FetchDay(ctx context.Context, dateKey string) ([]weather.RawReading, error) {
	if err, ok := f.errs[dateKey]; ok {
		return nil, err
	}
	return f.days[dateKey], nil
}

func newTestApp(t *testing.T, st *fakeStore) (*fiber.App, *store.SummaryCache) {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})

	svc := weather.NewService(st, loc)
	cache := store.NewSummaryCache(10, time.Hour)
	RegisterRoutes(app, svc, cache, narrative.NewClient(&http.Client{}, ""))

	return app, cache
}

func fptr(v float64) *float64 { return &v }

func testReading(t *testing.T, ts string) weather.RawReading {
	t.Helper()
	instant, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", ts, err)
	}
	return weather.RawReading{
		Temperature: fptr(30),
		Humidity:    fptr(70),
		Pressure:    fptr(1008),
		Timestamp:   instant,
	}
}

// The day endpoint rejects missing or malformed dates before touching the
// store.
func TestDayQueryValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{})

	for _, target := range []string{
		"/api/v1/weather/day",
		"/api/v1/weather/day?date=15-07-2024",
		"/api/v1/weather/day?date=notadate",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestDayEndpointReturnsReadings(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{days: map[string][]weather.RawReading{
		"2024-07-15": {
			testReading(t, "2024-07-15T01:00:00Z"),
			testReading(t, "2024-07-15T02:00:00Z"),
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/day?date=2024-07-15", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Date     string            `json:"date"`
		Readings []weather.Reading `json:"readings"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Date != "2024-07-15" || len(body.Readings) != 2 {
		t.Errorf("got date %q with %d readings, want 2024-07-15 with 2", body.Date, len(body.Readings))
	}
	if body.Readings[0].WBGT == nil {
		t.Error("expected derived wbgt on materialized readings")
	}
}

// Permission problems get a distinct, actionable status instead of a
// generic upstream failure.
func TestDayEndpointPermissionDenied(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{errs: map[string]error{
		"2024-07-15": fmt.Errorf("query failed: %w", store.ErrPermissionDenied),
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/day?date=2024-07-15", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, resp.StatusCode)
	}
}

func TestRangeEndpointReversedDates(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/weather/range?from=2024-07-18&to=2024-07-15", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRangeEndpointOmitsEmptyDays(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{days: map[string][]weather.RawReading{
		"2024-07-15": {testReading(t, "2024-07-15T01:00:00Z")},
		"2024-07-17": {testReading(t, "2024-07-17T01:00:00Z")},
	}})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/weather/range?from=2024-07-15&to=2024-07-17&order=desc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Summaries []weather.DailySummary `json:"summaries"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2 (empty day omitted)", len(body.Summaries))
	}
	if body.Summaries[0].Date != "2024-07-17" || body.Summaries[1].Date != "2024-07-15" {
		t.Errorf("descending order not honored: %q, %q",
			body.Summaries[0].Date, body.Summaries[1].Date)
	}
}

func TestRangeEndpointInvalidOrder(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/weather/range?from=2024-07-15&to=2024-07-16&order=sideways", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestLatestEndpoint(t *testing.T) {
	app, cache := newTestApp(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cold cache: expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	avg := 28.5
	cache.Put(weather.DailySummary{
		Date:        "2024-07-15",
		Temperature: weather.MetricStats{Avg: &avg, Max: &avg, Min: &avg},
	})

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("warm cache: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var summary weather.DailySummary
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if summary.Date != "2024-07-15" {
		t.Errorf("Date = %q, want %q", summary.Date, "2024-07-15")
	}
}

func TestNarrativeEndpointDisabled(t *testing.T) {
	app, _ := newTestApp(t, &fakeStore{days: map[string][]weather.RawReading{
		"2024-07-15": {testReading(t, "2024-07-15T01:00:00Z")},
	}})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/weather/day/narrative?date=2024-07-15", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}
