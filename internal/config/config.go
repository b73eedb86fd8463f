package config

import (
	_ "embed"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/wallcal/internal/constants"
	"github.com/kozaktomas/wallcal/internal/render"
	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var themesYAML []byte

type Config struct {
	Web      WebConfig
	Calendar CalendarConfig
	Render   RenderConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Themes   ThemesConfig
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // empty or "*" allows any origin
}

type CalendarConfig struct {
	Year          int    // 0 follows the current date
	Theme         string // default theme name
	DefaultWidth  int
	DefaultHeight int
	MaxDimension  int
}

// YearFor returns the year to render on the given day.
func (c *CalendarConfig) YearFor(today time.Time) int {
	if c.Year > 0 {
		return c.Year
	}
	return today.Year()
}

type RenderConfig struct {
	Concurrency int
	Timeout     time.Duration
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

type MetricsConfig struct {
	Disabled bool
}

type ThemesConfig struct {
	Themes map[string]ThemeConfig `yaml:"themes"`
}

type ThemeConfig struct {
	Background    string `yaml:"background"`
	Text          string `yaml:"text"`
	Highlight     string `yaml:"highlight"`
	HighlightText string `yaml:"highlight_text"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString returns the environment variable or defaultVal when it is unset or blank.
func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var themes ThemesConfig
	if err := yaml.Unmarshal(themesYAML, &themes); err != nil {
		// Embedded file, so this only fails on a broken build.
		panic("failed to unmarshal embedded themes.yaml: " + err.Error())
	}

	return &Config{
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", envInt("PORT", constants.DefaultPort)),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Calendar: CalendarConfig{
			Year:          envInt("CALENDAR_YEAR", 0),
			Theme:         envString("CALENDAR_THEME", constants.DefaultTheme),
			DefaultWidth:  envInt("CALENDAR_DEFAULT_WIDTH", constants.DefaultWidth),
			DefaultHeight: envInt("CALENDAR_DEFAULT_HEIGHT", constants.DefaultHeight),
			MaxDimension:  envInt("CALENDAR_MAX_DIMENSION", constants.MaxDimension),
		},
		Render: RenderConfig{
			Concurrency: envInt("RENDER_CONCURRENCY", runtime.NumCPU()),
			Timeout:     envDuration("RENDER_TIMEOUT", constants.DefaultRenderTimeout),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "text"),
		},
		Metrics: MetricsConfig{
			Disabled: envBool("METRICS_DISABLED"),
		},
		Themes: themes,
	}
}

// ThemeNames returns the configured theme names in sorted order.
func (c *Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes.Themes))
	for name := range c.Themes.Themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetTheme returns the named theme. Unknown or invalid names fall back to the
// configured default and finally to the classic palette.
func (c *Config) GetTheme(name string) render.Theme {
	for _, candidate := range []string{name, c.Calendar.Theme} {
		tc, ok := c.Themes.Themes[candidate]
		if !ok {
			continue
		}
		theme, err := render.ThemeFromHex(candidate, tc.Background, tc.Text, tc.Highlight, tc.HighlightText)
		if err == nil {
			return theme
		}
	}
	return render.ClassicTheme()
}
