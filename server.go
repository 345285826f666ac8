package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lendingdesk/court-search-service/common/config"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/messaging"
	"github.com/lendingdesk/court-search-service/handler"
	"github.com/lendingdesk/court-search-service/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type AppHttpServer struct {
	router     *chi.Mux
	cfg        config.Config
	server     *http.Server
	db         *db.DB
	natsClient *messaging.NatsBroker
}

func NewAppHttpServer(cfg config.Config) (*AppHttpServer, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-KEY", "X-TIMESTAMP", "X-SIGNATURE"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Searches run asynchronously, so requests themselves stay short.
	r.Use(middleware.Timeout(30 * time.Second))

	server := &AppHttpServer{
		router: r,
		cfg:    cfg,
	}
	return server, nil
}

// SetDB sets the database dependency
func (s *AppHttpServer) SetDB(db *db.DB) {
	s.db = db
}

// SetNatsClient sets the NATS client dependency
func (s *AppHttpServer) SetNatsClient(client *messaging.NatsBroker) {
	s.natsClient = client
}

func (s *AppHttpServer) setupRoute() {
	r := s.router

	if s.db == nil {
		log.Warn().Msg("DB dependency not set")
	}

	if s.natsClient == nil {
		log.Warn().Msg("NATS client dependency not set")
	}

	// API Documentation with Swagger
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public health endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"court-search-service"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middlewares.AccessTime())
		r.Use(middlewares.ApiKey(s.cfg.Security.BackendApiKey))
		r.Use(middlewares.RequestSignature(s.cfg.Security.ServerSalt))

		searchHandler := handler.NewSearchHandler(s.db, s.natsClient)
		healthHandler := handler.NewHealthHandler(s.db)

		r.Mount("/search", searchHandler.Router())
		r.Mount("/health", healthHandler.Router())
	})
}

func (s *AppHttpServer) start() error {
	r := s.router
	cfg := s.cfg
	log.Info().Msg("Starting up server...")

	s.server = &http.Server{
		Addr:         cfg.Listen.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// This starts the server in a goroutine from main
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
