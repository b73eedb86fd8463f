package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/wallcal/internal/config"
	"github.com/kozaktomas/wallcal/internal/metrics"
	"github.com/kozaktomas/wallcal/internal/render"
	"github.com/prometheus/client_golang/prometheus"
)

// fixedNow is the "today" used by handler tests.
var fixedNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.Local)

// testConfig creates a small config for testing
func testConfig() *config.Config {
	return &config.Config{
		Calendar: config.CalendarConfig{
			Theme:         "classic",
			DefaultWidth:  320,
			DefaultHeight: 208,
			MaxDimension:  640,
		},
		Render: config.RenderConfig{
			Concurrency: 2,
		},
		Themes: config.ThemesConfig{Themes: map[string]config.ThemeConfig{
			"classic": {Background: "#F3EFE3", Text: "#2C4E80", Highlight: "#2C4E80", HighlightText: "#F3EFE3"},
			"marker":  {Background: "#FFFFFF", Text: "#0000FF", Highlight: "#FF0000", HighlightText: "#00FF00"},
		}},
	}
}

// newTestCalendarHandler creates a calendar handler with a frozen clock
func newTestCalendarHandler(t *testing.T, cfg *config.Config) *CalendarHandler {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	h := NewCalendarHandler(cfg, r, metrics.New(prometheus.NewRegistry()))
	h.now = func() time.Time { return fixedNow }
	return h
}

// decodePNG decodes a PNG response body
func decodePNG(t *testing.T, recorder *httptest.ResponseRecorder) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(recorder.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to decode PNG response: %v", err)
	}
	return img
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
