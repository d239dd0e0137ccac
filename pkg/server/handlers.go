package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/cachestats"
	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

// listResponse is the payload for the listing views.
type listResponse struct {
	Properties      []*property.Property `json:"properties"`
	TotalProperties int                  `json:"total_properties"`
	IsCached        bool                 `json:"is_cached"`
	CacheKey        string               `json:"cache_key"`
	CachedCount     *int                 `json:"cached_count"`
}

// metricsResponse is the payload for the cache metrics views.
type metricsResponse struct {
	Metrics               *cachestats.Metrics  `json:"metrics"`
	Analysis              *cachestats.Analysis `json:"analysis"`
	PropertiesCached      bool                 `json:"properties_cached"`
	CachedPropertiesCount *int                 `json:"cached_properties_count"`
	Timestamp             string               `json:"timestamp"`
}

// GET /
// Optional ?clear_cache=true invalidates the snapshot first.
func (s *Server) listProperties(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("clear_cache") == "true" {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Cache clear requested but failed")
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	properties, err := s.cache.FetchAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list properties")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list properties")
	}

	return c.JSON(http.StatusOK, &listResponse{
		Properties:      properties,
		TotalProperties: len(properties),
		IsCached:        s.cache.IsCached(ctx),
		CacheKey:        cache.AllPropertiesKey,
		CachedCount:     s.cachedCount(c),
	})
}

// GET /uncached/
// Always queries the store, never the cache.
func (s *Server) listPropertiesUncached(c echo.Context) error {
	ctx := c.Request().Context()

	properties, err := s.service.Store().ListProperties(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list properties uncached")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list properties")
	}

	return c.JSON(http.StatusOK, &listResponse{
		Properties:      properties,
		TotalProperties: len(properties),
		IsCached:        false,
		CacheKey:        "none",
	})
}

// GET /properties/:id
func (s *Server) getProperty(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	p, err := s.cache.FetchProperty(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "property not found")
		}
		s.logger.Error().Err(err).Int64("property_id", id).Msg("Failed to get property")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get property")
	}
	return c.JSON(http.StatusOK, p)
}

// POST /create-sample/
// Inserts one property from form fields, with defaults when absent.
func (s *Server) createSampleProperty(c echo.Context) error {
	price := 250000.00
	if v := c.FormValue("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		price = parsed
	}

	create := &property.Property{
		Title:       formValueOr(c, "title", "Sample Property"),
		Description: formValueOr(c, "description", "This is a sample property description"),
		Price:       price,
		Location:    formValueOr(c, "location", "Sample Location"),
	}

	if _, err := s.service.CreateProperty(c.Request().Context(), create); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create sample property")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// GET /cache-metrics/
// Optional ?clear_cache=true or ?refresh_cache=true act before the
// redirect back to the page.
func (s *Server) cacheMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("clear_cache") == "true" {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Cache clear requested but failed")
		}
		return c.Redirect(http.StatusSeeOther, "/cache-metrics/")
	}
	if c.QueryParam("refresh_cache") == "true" {
		if _, err := s.cache.Refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Cache refresh requested but failed")
		}
		return c.Redirect(http.StatusSeeOther, "/cache-metrics/")
	}

	return c.JSON(http.StatusOK, s.metricsPayload(c))
}

// GET /api/cache-metrics/
func (s *Server) cacheMetricsAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metricsPayload(c))
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) metricsPayload(c echo.Context) *metricsResponse {
	ctx := c.Request().Context()
	metrics := s.collector.Collect(ctx)
	return &metricsResponse{
		Metrics:               metrics,
		Analysis:              cachestats.Analyze(metrics),
		PropertiesCached:      s.cache.IsCached(ctx),
		CachedPropertiesCount: s.cachedCount(c),
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Server) cachedCount(c echo.Context) *int {
	count, ok := s.cache.CachedCount(c.Request().Context())
	if !ok {
		return nil
	}
	return &count
}

func formValueOr(c echo.Context, name, fallback string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}
	return fallback
}
