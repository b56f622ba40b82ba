// Package server assembles the HTTP service: it wires the store, the
// context manager, the agent, and the content pipeline onto a chi
// router and owns the listener lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/agent"
	"github.com/crukhq/supporter-engagement/internal/config"
	"github.com/crukhq/supporter-engagement/internal/content"
	"github.com/crukhq/supporter-engagement/internal/contextmgr"
	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/intent"
	"github.com/crukhq/supporter-engagement/internal/llm"
	"github.com/crukhq/supporter-engagement/internal/profile"
	"github.com/crukhq/supporter-engagement/internal/search"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// Server is the supporter engagement HTTP service.
type Server struct {
	cfg        config.Config
	db         *db.DB
	store      *store.Store
	agent      *agent.Agent
	router     chi.Router
	httpServer *http.Server
	stopPurge  chan struct{}
	log        zerolog.Logger
}

// New creates a server with all dependencies wired.
func New(cfg config.Config, database *db.DB, provider llm.Provider, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		db:    database,
		store: store.New(database, log),
		log:   log.With().Str("component", "server").Logger(),
	}

	contexts := contextmgr.New(s.store, log)
	classifier := intent.New(provider, cfg.Model, log)
	generator := content.New(provider, cfg.Model, s.store, cfg.ImpactTiers, log)
	s.agent = agent.New(s.store, contexts, classifier, generator, cfg.SessionTTL(), log)

	s.router = s.buildRouter(contexts)
	return s
}

func (s *Server) buildRouter(contexts *contextmgr.Manager) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		profile.RegisterRoutes(r, profile.NewHandler(s.store, s.log))
		search.RegisterRoutes(r, search.NewHandler(s.store, s.log))
		agent.RegisterRoutes(r, s.agent)
		contextmgr.RegisterRoutes(r, contexts)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Store returns the data store.
func (s *Server) Store() *store.Store { return s.store }

// Start begins listening on the configured host and port. It blocks
// until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.stopPurge = make(chan struct{})
	go s.purgeLoop()

	s.log.Info().Str("addr", addr).Msg("supporter engagement service listening")
	return s.httpServer.ListenAndServe()
}

// purgeLoop sweeps idle sessions so abandoned conversations don't
// accumulate. Expiry on read already guards correctness; this keeps the
// table small.
func (s *Server) purgeLoop() {
	ttl := s.cfg.SessionTTL()
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopPurge:
			return
		case <-ticker.C:
			n, err := s.store.PurgeExpiredSessions(context.Background(), ttl)
			if err != nil {
				s.log.Warn().Err(err).Msg("purging expired sessions")
			} else if n > 0 {
				s.log.Debug().Int64("purged", n).Msg("expired sessions removed")
			}
		}
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopPurge != nil {
		close(s.stopPurge)
		s.stopPurge = nil
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
