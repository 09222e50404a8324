// Package api exposes the pricing and quote-extraction engines over HTTP
// for the storefront's cart, checkout, and chat surfaces.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"capforge/internal/catalog"
	"capforge/internal/pricing"
	"capforge/internal/quote"
	"capforge/internal/store"
	"capforge/pkg/platform"
)

// Config holds server configuration. An empty APIKey leaves the /v1
// routes unauthenticated.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	APIKey         string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	engine     *pricing.Engine
	parser     *quote.Parser
	cache      *catalog.Cache
	quotes     *store.Quotes
	log        zerolog.Logger
	config     *Config
}

// NewServer wires the engines behind the HTTP surface. quotes may be nil
// when the server runs without persistence.
func NewServer(engine *pricing.Engine, parser *quote.Parser, cache *catalog.Cache, quotes *store.Quotes, log zerolog.Logger, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		engine: engine,
		parser: parser,
		cache:  cache,
		quotes: quotes,
		log:    log,
		config: config,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      s.routes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(platform.APIKeyMiddleware(s.config.APIKey))
		r.Post("/price", s.handlePrice)
		r.Post("/parse", s.handleParse)
		r.Post("/cache/invalidate", s.handleInvalidate)
		if s.quotes != nil {
			r.Post("/quotes", s.handleSaveQuote)
			r.Get("/quotes", s.handleListQuotes)
			r.Get("/quotes/{id}", s.handleGetQuote)
		}
	})
	return r
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("api server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

type priceResponse struct {
	Breakdown *pricing.Breakdown   `json:"breakdown"`
	AI        *pricing.AIBreakdown `json:"ai"`
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req pricing.OrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		s.writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	breakdown, err := s.engine.PriceOrder(r.Context(), req)
	if err != nil {
		var lookupErr *pricing.LookupError
		if errors.As(err, &lookupErr) {
			// No partial totals: the whole computation failed.
			s.log.Warn().Err(err).Msg("order pricing aborted")
			s.writeError(w, http.StatusUnprocessableEntity, "failed to calculate cost")
			return
		}
		s.log.Error().Err(err).Msg("order pricing failed")
		s.writeError(w, http.StatusInternalServerError, "failed to calculate cost")
		return
	}
	s.writeJSON(w, http.StatusOK, priceResponse{Breakdown: breakdown, AI: breakdown.ForAI()})
}

type parseRequest struct {
	Message   string             `json:"message"`
	Preserved *quote.ParsedQuote `json:"preservedContext,omitempty"`
}

type parseResponse struct {
	Quote *quote.ParsedQuote `json:"quote"`
	Found bool               `json:"found"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decode(w, r, &req) {
		return
	}
	q := s.parser.Parse(req.Message, req.Preserved)
	s.writeJSON(w, http.StatusOK, parseResponse{Quote: q, Found: q != nil})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, _ *http.Request) {
	s.cache.Invalidate()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) handleSaveQuote(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decode(w, r, &req) {
		return
	}
	q := s.parser.Parse(req.Message, req.Preserved)
	if q == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "no quote found in message")
		return
	}
	id, err := s.quotes.Save(r.Context(), req.Message, q)
	if err != nil {
		s.log.Error().Err(err).Msg("saving quote request failed")
		s.writeError(w, http.StatusInternalServerError, "failed to save quote request")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": id, "quote": q})
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	requests, err := s.quotes.List(r.Context(), 50)
	if err != nil {
		s.log.Error().Err(err).Msg("listing quote requests failed")
		s.writeError(w, http.StatusInternalServerError, "failed to list quote requests")
		return
	}
	s.writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid quote request id")
		return
	}
	qr, err := s.quotes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "quote request not found")
			return
		}
		s.log.Error().Err(err).Msg("loading quote request failed")
		s.writeError(w, http.StatusInternalServerError, "failed to load quote request")
		return
	}
	s.writeJSON(w, http.StatusOK, qr)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("writing response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
