// Package server delivers extracted events over HTTP.
//
// Routes:
//
//	GET /api/concerts               events as a JSON array
//	GET /api/concerts/calendar.ics  one event (?id=) or all of them as iCalendar
//	GET /api/concerts/stats         counts, facets and the upcoming highlight
//	GET /health                     liveness
//	GET /metrics                    Prometheus exposition
//
// The listing endpoints share one query string (search, genre, venue, type,
// from, to, range, hideSoldOut, weekends). The extraction result is cached for
// the configured TTL; failures are never cached.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/belle-events/internal/cache"
	"github.com/pfrederiksen/belle-events/internal/calendar"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/logger"
	"github.com/pfrederiksen/belle-events/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL             = time.Hour
	DefaultStaleWhileRevalidate = 2 * time.Hour

	cacheKey        = "concerts"
	shutdownTimeout = 10 * time.Second
)

// Source produces the current event list. Implemented by the scraper and by
// the generated data file.
type Source interface {
	FetchEvents(ctx context.Context) ([]*event.Event, error)
}

// Options configure caching, calendar output and instrumentation.
type Options struct {
	CacheTTL             time.Duration
	StaleWhileRevalidate time.Duration
	Calendar             calendar.Options
	Cache                cache.Cache // nil disables result caching
	Logger               *logger.Logger
	Metrics              *metrics.Metrics
	Now                  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.StaleWhileRevalidate <= 0 {
		o.StaleWhileRevalidate = DefaultStaleWhileRevalidate
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Calendar.Now == nil {
		o.Calendar.Now = o.Now
	}
	return o
}

// Server serves events from a Source.
type Server struct {
	source Source
	opts   Options
	log    *logger.Logger
	engine *gin.Engine

	// fetches collapses concurrent cache misses into one extraction run
	fetches singleflight.Group
}

// New builds a server and its routes.
func New(source Source, opts Options) (*Server, error) {
	if source == nil {
		return nil, errors.New("server: source is required")
	}
	opts = opts.withDefaults()

	s := &Server{
		source: source,
		opts:   opts,
		log:    opts.Logger,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.log))
	r.Use(Metrics(s.opts.Metrics))

	r.GET("/health", s.handleHealth)
	if s.opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}

	api := r.Group("/api/concerts")
	api.GET("", s.handleConcerts)
	api.GET("/calendar.ics", s.handleCalendar)
	api.GET("/stats", s.handleStats)

	return r
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadEvents returns the cached extraction result or fetches a fresh one.
// Concurrent misses share a single fetch.
func (s *Server) loadEvents(ctx context.Context) ([]*event.Event, error) {
	if events, ok := s.cached(ctx, true); ok {
		return events, nil
	}

	v, err, _ := s.fetches.Do(cacheKey, func() (interface{}, error) {
		// A fetch that finished since the first lookup already filled the cache.
		if events, ok := s.cached(ctx, false); ok {
			return events, nil
		}

		// Other requests wait on this fetch, so one client going away must not cancel it.
		events, err := s.source.FetchEvents(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		if s.opts.Cache != nil {
			if err := s.opts.Cache.Set(ctx, cacheKey, events, s.opts.CacheTTL); err != nil {
				s.log.Warn("Cache write failed", logger.Fields{"error": err.Error()})
			}
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*event.Event), nil
}

// cached looks the result up, counting the hit or miss when observe is set.
func (s *Server) cached(ctx context.Context, observe bool) ([]*event.Event, bool) {
	if s.opts.Cache == nil {
		return nil, false
	}

	var events []*event.Event
	err := s.opts.Cache.Get(ctx, cacheKey, &events)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("Cache read failed", logger.Fields{"error": err.Error()})
	}
	if observe {
		s.opts.Metrics.ObserveCache(err == nil)
	}
	if err != nil {
		return nil, false
	}
	return events, true
}
