package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/wallcal/internal/config"
	"github.com/kozaktomas/wallcal/internal/constants"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
	now    func() time.Time
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
		now:    time.Now,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Year                   int      `json:"year"`
	DefaultWidth           int      `json:"default_width"`
	DefaultHeight          int      `json:"default_height"`
	MaxDimension           int      `json:"max_dimension"`
	DefaultTheme           string   `json:"default_theme"`
	Themes                 []string `json:"themes"`
	RefreshIntervalSeconds int      `json:"refresh_interval_seconds"`
}

// Get returns the rendering defaults so clients can build calendar URLs
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cal := h.config.Calendar

	response := ConfigResponse{
		Year:                   cal.YearFor(h.now()),
		DefaultWidth:           cal.DefaultWidth,
		DefaultHeight:          cal.DefaultHeight,
		MaxDimension:           cal.MaxDimension,
		DefaultTheme:           h.config.GetTheme(cal.Theme).Name,
		Themes:                 h.config.ThemeNames(),
		RefreshIntervalSeconds: int(constants.ViewRefreshInterval.Seconds()),
	}

	respondJSON(w, http.StatusOK, response)
}
