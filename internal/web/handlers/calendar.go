package handlers

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/kozaktomas/wallcal/internal/config"
	"github.com/kozaktomas/wallcal/internal/constants"
	"github.com/kozaktomas/wallcal/internal/layout"
	"github.com/kozaktomas/wallcal/internal/metrics"
	"github.com/kozaktomas/wallcal/internal/render"
	"github.com/kozaktomas/wallcal/internal/web/static"
	"golang.org/x/sync/semaphore"
)

// etagNamespace scopes the name-based UUIDs used as entity tags.
var etagNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://wallcal/api/calendar"))

// CalendarHandler serves the calendar image and the viewer page.
type CalendarHandler struct {
	config   *config.Config
	renderer *render.Renderer
	metrics  *metrics.Metrics
	sem      *semaphore.Weighted
	now      func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(cfg *config.Config, renderer *render.Renderer, m *metrics.Metrics) *CalendarHandler {
	return &CalendarHandler{
		config:   cfg,
		renderer: renderer,
		metrics:  m,
		sem:      semaphore.NewWeighted(int64(max(cfg.Render.Concurrency, 1))),
		now:      time.Now,
	}
}

// calendarRequest is a fully resolved render request.
type calendarRequest struct {
	width  int
	height int
	year   int
	today  time.Time
	theme  render.Theme
}

func (h *CalendarHandler) parseRequest(r *http.Request) calendarRequest {
	q := r.URL.Query()
	cal := h.config.Calendar
	today := h.now()

	return calendarRequest{
		width:  parseDimension(q.Get("width"), cal.DefaultWidth, cal.MaxDimension),
		height: parseDimension(q.Get("height"), cal.DefaultHeight, cal.MaxDimension),
		year:   cal.YearFor(today),
		today:  today,
		theme:  h.config.GetTheme(q.Get("theme")),
	}
}

// etag identifies the rendered image. The content only changes with the
// calendar day, so the tag does too.
func (c calendarRequest) etag() string {
	key := fmt.Sprintf("%d|%dx%d|%s|%s", c.year, c.width, c.height, c.theme.Name, c.today.Format(time.DateOnly))
	return `"` + uuid.NewSHA1(etagNamespace, []byte(key)).String() + `"`
}

// etagMatches implements the If-None-Match comparison (weak comparison).
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// Image handles GET /api/calendar. The t query parameter is ignored; it only
// lets clients bypass their own caches.
func (h *CalendarHandler) Image(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := h.parseRequest(r)
	plan := layout.Compute(req.width, req.height)
	orientation := string(plan.Orientation)
	start := time.Now()

	etag := req.etag()
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		h.metrics.Observe(orientation, metrics.OutcomeNotModified, time.Since(start))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		// Client went away while waiting for a slot.
		h.metrics.Observe(orientation, metrics.OutcomeCancelled, time.Since(start))
		return
	}
	done := h.metrics.Started()
	img, err := h.renderSafely(plan, render.Options{Year: req.year, Today: req.today, Theme: req.theme})
	done()
	h.sem.Release(1)

	if err != nil {
		h.fail(w, r, req, orientation, start, err)
		return
	}
	if ctx.Err() != nil {
		h.metrics.Observe(orientation, metrics.OutcomeCancelled, time.Since(start))
		return
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		h.fail(w, r, req, orientation, start, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("client disconnected while streaming calendar", "err", err)
	}

	h.metrics.Observe(orientation, metrics.OutcomeOK, time.Since(start))
	slog.Debug("calendar rendered",
		"width", req.width, "height", req.height, "year", req.year,
		"theme", req.theme.Name, "bytes", buf.Len(), "duration", time.Since(start))
}

// renderSafely turns a panic in the raster or font code into an error.
func (h *CalendarHandler) renderSafely(plan layout.Plan, opts render.Options) (img *image.RGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render panicked: %v", rec)
		}
	}()
	return h.renderer.Render(plan, opts)
}

func (h *CalendarHandler) fail(w http.ResponseWriter, r *http.Request, req calendarRequest, orientation string, start time.Time, err error) {
	slog.Error("failed to render calendar",
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"width", req.width, "height", req.height, "theme", req.theme.Name, "err", err)
	h.metrics.Observe(orientation, metrics.OutcomeError, time.Since(start))

	w.Header().Del("ETag")
	respondPlainError(w, http.StatusInternalServerError)
}

// View handles GET /view: a page that shows the calendar full-bleed and
// reloads itself periodically.
func (h *CalendarHandler) View(w http.ResponseWriter, r *http.Request) {
	req := h.parseRequest(r)

	q := url.Values{}
	q.Set("width", strconv.Itoa(req.width))
	q.Set("height", strconv.Itoa(req.height))
	if theme := r.URL.Query().Get("theme"); theme != "" {
		q.Set("theme", req.theme.Name)
	}
	q.Set("t", strconv.FormatInt(h.now().Unix(), 10))

	data := static.ViewData{
		Title:          strconv.Itoa(req.year),
		ImageURL:       "/api/calendar?" + q.Encode(),
		Width:          req.width,
		Height:         req.height,
		RefreshSeconds: int(constants.ViewRefreshInterval.Seconds()),
	}

	var buf bytes.Buffer
	if err := static.RenderView(&buf, data); err != nil {
		slog.Error("failed to render viewer page", "theme", sanitizeForLog(r.URL.Query().Get("theme")), "err", err)
		respondPlainError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("client disconnected while streaming viewer page", "err", err)
	}
}

// Index redirects to the viewer, keeping the query string.
func (h *CalendarHandler) Index(w http.ResponseWriter, r *http.Request) {
	target := "/view"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}
