package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/wallcal/internal/config"
	"github.com/kozaktomas/wallcal/internal/constants"
	"github.com/kozaktomas/wallcal/internal/layout"
	"github.com/kozaktomas/wallcal/internal/render"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the calendar to PNG files",
	Long: `Render the calendar without a server.

Each --size produces one file named calendar-WIDTHxHEIGHT.png in --out.
With a single size, --output writes to an exact path instead.

Examples:
  wallcal render --size 2560x1664
  wallcal render --size 1080x1920 --size 3840x2160 --out ./wallpapers
  wallcal render --date 2026-12-24 --theme midnight --output xmas.png`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringSlice("size", []string{fmt.Sprintf("%dx%d", constants.DefaultWidth, constants.DefaultHeight)}, "Image size as WIDTHxHEIGHT (repeatable)")
	renderCmd.Flags().String("out", ".", "Directory for rendered files")
	renderCmd.Flags().String("output", "", "Exact output file (single size only)")
	renderCmd.Flags().Int("year", 0, "Year to render (default: CALENDAR_YEAR or the year of --date)")
	renderCmd.Flags().String("date", "", "Day to highlight as YYYY-MM-DD (default: today)")
	renderCmd.Flags().String("theme", "", "Theme name (default: CALENDAR_THEME)")
	renderCmd.Flags().Int("concurrency", constants.DefaultConcurrency, "Number of parallel renders")
}

// renderJob is one image to produce.
type renderJob struct {
	width  int
	height int
	path   string
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: expected positive WIDTHxHEIGHT", s)
	}
	return w, h, nil
}

// parseDate resolves the day to highlight. An empty value means now.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// planJobs turns the requested sizes into output files.
func planJobs(sizes []string, outDir, output string, maxDim int) ([]renderJob, error) {
	if len(sizes) == 0 {
		return nil, errors.New("at least one --size is required")
	}
	if output != "" && len(sizes) > 1 {
		return nil, errors.New("--output can only be used with a single --size")
	}

	jobs := make([]renderJob, 0, len(sizes))
	for _, s := range sizes {
		w, h, err := parseSize(s)
		if err != nil {
			return nil, err
		}
		if maxDim > 0 && (w > maxDim || h > maxDim) {
			return nil, fmt.Errorf("size %q exceeds the maximum of %d pixels per side", s, maxDim)
		}
		path := output
		if path == "" {
			path = filepath.Join(outDir, fmt.Sprintf("calendar-%dx%d.png", w, h))
		}
		jobs = append(jobs, renderJob{width: w, height: h, path: path})
	}
	return jobs, nil
}

// renderToFile renders one job. The PNG is fully encoded before the file is written.
func renderToFile(renderer *render.Renderer, job renderJob, opts render.Options) error {
	img, err := renderer.Render(layout.Compute(job.width, job.height), opts)
	if err != nil {
		return fmt.Errorf("rendering %dx%d: %w", job.width, job.height, err)
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return fmt.Errorf("encoding %dx%d: %w", job.width, job.height, err)
	}
	if err := os.WriteFile(job.path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // wallpaper images are meant to be readable
		return fmt.Errorf("writing %s: %w", job.path, err)
	}
	return nil
}

// renderBatch renders all jobs with at most concurrency renders in flight.
// bar may be nil.
func renderBatch(ctx context.Context, renderer *render.Renderer, jobs []renderJob, opts render.Options, concurrency int, bar *progressbar.ProgressBar) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := renderToFile(renderer, job, opts); err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	today, err := parseDate(mustGetString(cmd, "date"), time.Now())
	if err != nil {
		return err
	}

	output := mustGetString(cmd, "output")
	outDir := mustGetString(cmd, "out")
	jobs, err := planJobs(mustGetStringSlice(cmd, "size"), outDir, output, cfg.Calendar.MaxDimension)
	if err != nil {
		return err
	}

	year := mustGetInt(cmd, "year")
	if year == 0 {
		year = cfg.Calendar.YearFor(today)
	}

	themeName := mustGetString(cmd, "theme")
	if themeName == "" {
		themeName = cfg.Calendar.Theme
	}
	if _, ok := cfg.Themes.Themes[themeName]; !ok {
		slog.Warn("unknown theme, using default", "theme", themeName, "available", cfg.ThemeNames())
	}
	opts := render.Options{Year: year, Today: today, Theme: cfg.GetTheme(themeName)}

	if output == "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}

	var bar *progressbar.ProgressBar
	if len(jobs) > 1 {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetDescription("Rendering calendars"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	start := time.Now()
	if err := renderBatch(cmd.Context(), renderer, jobs, opts, mustGetInt(cmd, "concurrency"), bar); err != nil {
		return err
	}
	if bar != nil {
		fmt.Println()
	}

	for _, job := range jobs {
		fmt.Printf("Wrote %s (%dx%d)\n", job.path, job.width, job.height)
	}
	slog.Debug("render finished", "images", len(jobs), "year", year, "theme", opts.Theme.Name, "duration", time.Since(start))
	return nil
}
