package web

import (
	"github.com/kozaktomas/wallcal/internal/web/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	calendarHandler := handlers.NewCalendarHandler(s.config, s.renderer, s.metrics)
	configHandler := handlers.NewConfigHandler(s.config)

	s.router.Get("/api/health", handlers.HealthCheck)
	s.router.Get("/api/config", configHandler.Get)
	s.router.Get("/api/calendar", calendarHandler.Image)

	s.router.Get("/view", calendarHandler.View)
	s.router.Get("/", calendarHandler.Index)

	if !s.config.Metrics.Disabled {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	s.router.NotFound(handlers.NotFound)
}
