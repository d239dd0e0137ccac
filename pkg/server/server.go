// Package server maps HTTP requests to the cache manager, the listing
// service, and the metrics reporter.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/cachestats"
	"github.com/homevista/property-listings/pkg/listing"
	"github.com/homevista/property-listings/pkg/logging"
)

// Server is the HTTP front for the property listings service.
type Server struct {
	echo      *echo.Echo
	service   *listing.Service
	cache     *cache.Manager
	collector *cachestats.Collector
	logger    zerolog.Logger
}

// New wires the routes and returns a server ready to start.
func New(service *listing.Service, manager *cache.Manager, collector *cachestats.Collector) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		service:   service,
		cache:     manager,
		collector: collector,
		logger:    logging.NewLogger("server"),
	}

	e.GET("/", s.listProperties)
	e.GET("/uncached/", s.listPropertiesUncached)
	e.GET("/properties/:id", s.getProperty)
	e.POST("/create-sample/", s.createSampleProperty)
	e.GET("/cache-metrics/", s.cacheMetrics)
	e.GET("/api/cache-metrics/", s.cacheMetricsAPI)
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("Starting property listings server")
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
