package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/thesismatch/internal/bootstrap"
	"github.com/yigit/thesismatch/internal/config"
	"github.com/yigit/thesismatch/internal/db"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	database *db.PostgresDB // nil with the file storage driver
	redis    *redis.Client  // nil with the local lock strategy
	events   *websocket.Hub
	logger   zerolog.Logger
	http     *http.Server

	stopEvents context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx := context.Background()
	s := &Server{config: cfg, logger: lgr}

	storage, err := bootstrap.SetupStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup storage: %w", err)
	}
	s.database = storage.Database

	lk, redisClient, err := bootstrap.SetupLocker(ctx, cfg, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup assignment locks: %w", err)
	}
	s.redis = redisClient

	deps, err := bootstrap.BuildDependencies(cfg, storage.Repos, lk, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	s.events = deps.Events
	bootstrap.SeedDefaultData(ctx, cfg, deps, lgr)

	s.router, err = bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second, // uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	s.stopEvents = stopEvents
	go s.events.Run(eventsCtx)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			stopEvents()
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error

	// Hijacked WebSocket connections are not closed by http.Server.Shutdown
	if s.stopEvents != nil {
		s.logger.Info().Msg("Stopping event hub...")
		s.stopEvents()
	}

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if err := s.closeResources(); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}

// closeResources releases the database pool and the redis client, if open
func (s *Server) closeResources() error {
	var err error
	if s.redis != nil {
		s.logger.Info().Msg("Closing redis client...")
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Error().Err(cerr).Msg("Redis client close error")
			err = cerr
		}
		s.redis = nil
	}
	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
		s.database = nil
		s.logger.Info().Msg("Database connection pool closed.")
	}
	return err
}
