package handlers

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/wallcal/internal/metrics"
	"github.com/kozaktomas/wallcal/internal/render"
	"github.com/prometheus/client_golang/prometheus"
)

func countRGBA(t *testing.T, recorder *httptest.ResponseRecorder, c color.RGBA) int {
	t.Helper()
	img := decodePNG(t, recorder)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) == c {
				n++
			}
		}
	}
	return n
}

func TestCalendarHandler_Image_DefaultSize(t *testing.T) {
	cfg := testConfig()
	cfg.Calendar.DefaultWidth = 2560
	cfg.Calendar.DefaultHeight = 1664
	cfg.Calendar.MaxDimension = 8192
	handler := newTestCalendarHandler(t, cfg)

	req := httptest.NewRequest("GET", "/api/calendar", nil)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")

	bounds := decodePNG(t, recorder).Bounds()
	if bounds.Dx() != 2560 || bounds.Dy() != 1664 {
		t.Errorf("expected 2560x1664, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCalendarHandler_Image_Dimensions(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	tests := []struct {
		name   string
		query  string
		width  int
		height int
	}{
		{name: "explicit", query: "width=300&height=500", width: 300, height: 500},
		{name: "non-numeric falls back", query: "width=abc&height=xyz", width: 320, height: 208},
		{name: "zero falls back", query: "width=0&height=0", width: 320, height: 208},
		{name: "negative falls back", query: "width=-10&height=-1", width: 320, height: 208},
		{name: "unit suffix", query: "width=400px&height=260.9", width: 400, height: 260},
		{name: "clamped", query: "width=100000&height=300", width: 640, height: 300},
		{name: "only width", query: "width=250", width: 250, height: 208},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/calendar?"+tt.query, nil)
			recorder := httptest.NewRecorder()

			handler.Image(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)
			bounds := decodePNG(t, recorder).Bounds()
			if bounds.Dx() != tt.width || bounds.Dy() != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestCalendarHandler_Image_Idempotent(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	first := httptest.NewRecorder()
	handler.Image(first, httptest.NewRequest("GET", "/api/calendar?width=300&height=200&t=1", nil))
	second := httptest.NewRecorder()
	handler.Image(second, httptest.NewRequest("GET", "/api/calendar?width=300&height=200&t=2", nil))

	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("expected identical images for identical inputs")
	}
	if first.Header().Get("ETag") == "" || first.Header().Get("ETag") != second.Header().Get("ETag") {
		t.Errorf("expected equal non-empty ETags, got %q and %q", first.Header().Get("ETag"), second.Header().Get("ETag"))
	}
}

func TestCalendarHandler_Image_ETagChangesDaily(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	today := httptest.NewRecorder()
	handler.Image(today, httptest.NewRequest("GET", "/api/calendar?width=300&height=200", nil))

	handler.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	tomorrow := httptest.NewRecorder()
	handler.Image(tomorrow, httptest.NewRequest("GET", "/api/calendar?width=300&height=200", nil))

	if today.Header().Get("ETag") == tomorrow.Header().Get("ETag") {
		t.Error("expected a new ETag on the next day")
	}
}

func TestCalendarHandler_Image_NotModified(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	first := httptest.NewRecorder()
	handler.Image(first, httptest.NewRequest("GET", "/api/calendar?width=300&height=200", nil))
	etag := first.Header().Get("ETag")

	req := httptest.NewRequest("GET", "/api/calendar?width=300&height=200&t=99", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotModified)
	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body, got %d bytes", recorder.Body.Len())
	}
}

func TestCalendarHandler_Image_HighlightsToday(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	req := httptest.NewRequest("GET", "/api/calendar?width=640&height=416&theme=marker", nil)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	red := color.RGBA{R: 0xFF, A: 0xFF}
	if n := countRGBA(t, recorder, red); n == 0 {
		t.Error("expected today's highlight in the image")
	}
}

func TestCalendarHandler_Image_NoHighlightForOtherYear(t *testing.T) {
	cfg := testConfig()
	cfg.Calendar.Year = 2030
	handler := newTestCalendarHandler(t, cfg)

	req := httptest.NewRequest("GET", "/api/calendar?width=640&height=416&theme=marker", nil)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	red := color.RGBA{R: 0xFF, A: 0xFF}
	if n := countRGBA(t, recorder, red); n != 0 {
		t.Errorf("expected no highlight when rendering 2030, found %d pixels", n)
	}
}

// rendersWithOutcome returns the wallcal_renders_total value for outcome.
func rendersWithOutcome(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	total := 0.0
	for _, family := range families {
		if family.GetName() != "wallcal_renders_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestCalendarHandler_Image_RenderFailure(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())
	handler.renderer = &render.Renderer{} // no fonts loaded
	reg := prometheus.NewRegistry()
	handler.metrics = metrics.New(reg)

	req := httptest.NewRequest("GET", "/api/calendar?width=300&height=200", nil)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected plain text error, got %q", ct)
	}
	if strings.Contains(recorder.Body.String(), "panic") {
		t.Errorf("internal detail leaked: %q", recorder.Body.String())
	}
	if recorder.Header().Get("ETag") != "" {
		t.Error("expected no ETag on failure")
	}
	if got := rendersWithOutcome(t, reg, metrics.OutcomeError); got != 1 {
		t.Errorf("expected 1 failed render recorded, got %v", got)
	}
	if got := rendersWithOutcome(t, reg, metrics.OutcomeOK); got != 0 {
		t.Errorf("expected no successful render recorded, got %v", got)
	}
}

func TestCalendarHandler_Image_ClientGoneWhileWaiting(t *testing.T) {
	cfg := testConfig()
	cfg.Render.Concurrency = 1
	handler := newTestCalendarHandler(t, cfg)

	// Occupy the only render slot.
	if err := handler.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("failed to acquire slot: %v", err)
	}
	defer handler.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest("GET", "/api/calendar?width=300&height=200", nil).WithContext(ctx)
	recorder := httptest.NewRecorder()

	handler.Image(recorder, req)

	if recorder.Body.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", recorder.Body.Len())
	}
	if recorder.Header().Get("Content-Type") == "image/png" {
		t.Error("expected no image response")
	}
}

func TestCalendarHandler_View(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	req := httptest.NewRequest("GET", "/view?width=1080&height=1920", nil)
	recorder := httptest.NewRecorder()

	handler.View(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "text/html; charset=utf-8")

	body := recorder.Body.String()
	for _, want := range []string{
		`/api/calendar?height=640&amp;t=`,
		`width=640`,
		`content="3600"`,
		`<title>2026</title>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q\n%s", want, body)
		}
	}
}

func TestCalendarHandler_View_PassesTheme(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	req := httptest.NewRequest("GET", "/view?width=300&height=200&theme=marker", nil)
	recorder := httptest.NewRecorder()

	handler.View(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	if !strings.Contains(recorder.Body.String(), "theme=marker") {
		t.Errorf("expected theme in image URL\n%s", recorder.Body.String())
	}
}

func TestCalendarHandler_View_ClientGone(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	recorder := httptest.NewRecorder()
	handler.View(failingWriter{recorder}, httptest.NewRequest("GET", "/view", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "text/html; charset=utf-8")
	if recorder.Body.Len() != 0 {
		t.Errorf("expected nothing delivered, got %d bytes", recorder.Body.Len())
	}
}

func TestCalendarHandler_Index_Redirects(t *testing.T) {
	handler := newTestCalendarHandler(t, testConfig())

	req := httptest.NewRequest("GET", "/?width=100&height=200", nil)
	recorder := httptest.NewRecorder()

	handler.Index(recorder, req)

	assertStatusCode(t, recorder, http.StatusFound)
	if loc := recorder.Header().Get("Location"); loc != "/view?width=100&height=200" {
		t.Errorf("unexpected redirect target %q", loc)
	}
}

func TestEtagMatches(t *testing.T) {
	etag := `"abc"`
	tests := []struct {
		header   string
		expected bool
	}{
		{header: `"abc"`, expected: true},
		{header: `W/"abc"`, expected: true},
		{header: `"x", "abc"`, expected: true},
		{header: `*`, expected: true},
		{header: `"abd"`, expected: false},
		{header: ``, expected: false},
	}

	for _, tt := range tests {
		if got := etagMatches(tt.header, etag); got != tt.expected {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.expected)
		}
	}
}
