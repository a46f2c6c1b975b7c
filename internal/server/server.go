// Package server exposes the label splitter over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/kpauljoseph/labelsplit/internal/cache"
	"github.com/kpauljoseph/labelsplit/internal/metrics"
	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/pkg/logger"
)

const defaultMaxUploadBytes = 64 << 20

type Server struct {
	converter      pdf.Converter
	cache          cache.Cache
	logger         *logger.Logger
	maxUploadBytes int64
}

type Option func(*Server)

func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

func New(converter pdf.Converter, c cache.Cache, logger *logger.Logger, opts ...Option) *Server {
	s := &Server{
		converter:      converter,
		cache:          c,
		logger:         logger,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/split", s.handleSplit)
	mux.HandleFunc("GET /api/split/{id}/pdf", s.handleDownload)
	mux.HandleFunc("GET /api/split/{id}/preview/{n}", s.handlePreview)
	mux.HandleFunc("DELETE /api/split/{id}", s.handleInvalidate)
}

// Handler returns the routes wrapped in the request logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.withRequestID(mux)
}

// lookup reads the cache and records the outcome. Backend failures are
// logged and reported as a miss.
func (s *Server) lookup(ctx context.Context, id string) (*cache.Entry, bool) {
	entry, ok, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.IncCacheLookup(metrics.CacheError)
		s.logger.Zerolog().Warn().Err(err).Str("id", id).Msg("cache lookup failed")
		return nil, false
	case ok:
		metrics.IncCacheLookup(metrics.CacheHit)
	default:
		metrics.IncCacheLookup(metrics.CacheMiss)
	}
	return entry, ok
}
