// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Canvas constants
const (
	// DefaultWidth is the canvas width used when the request has none
	DefaultWidth = 2560

	// DefaultHeight is the canvas height used when the request has none
	DefaultHeight = 1664

	// MaxDimension caps either side of the canvas to bound memory per render
	MaxDimension = 8192
)

// Theme constants
const (
	// DefaultTheme is the palette used when none is configured or requested
	DefaultTheme = "classic"
)

// Server constants
const (
	// DefaultPort is the port the web server listens on
	DefaultPort = 5001

	// DefaultRenderTimeout bounds a single calendar request
	DefaultRenderTimeout = 60 * time.Second

	// ShutdownTimeout is how long in-flight requests get on shutdown
	ShutdownTimeout = 30 * time.Second
)

// Viewer constants
const (
	// ViewRefreshInterval is how often the viewer page reloads itself
	ViewRefreshInterval = time.Hour
)

// CLI constants
const (
	// DefaultConcurrency is the default number of parallel renders in batch mode
	DefaultConcurrency = 4

	// DefaultFetchTimeout bounds a single download from a running server
	DefaultFetchTimeout = 2 * time.Minute
)
