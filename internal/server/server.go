// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the persisted slot and whatever backend it needs (PostgreSQL pool,
//     SQLite file, Redis client)
//   - background job service (asynq), when jobs are enabled
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/config"
	"github.com/deppfellow/service-catalog/internal/database"
	"github.com/deppfellow/service-catalog/internal/lib/job"
	"github.com/deppfellow/service-catalog/internal/store"

	loggerPkg "github.com/deppfellow/service-catalog/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; the CLI commands use it without ever
// listening.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Slot is where the service list is persisted.
	Slot store.Slot

	// DB is only set for the postgres backend.
	DB *database.Database

	// Redis is set when the redis backend or jobs are in use.
	Redis *redis.Client

	// Job is set when jobs are enabled. Its worker is started by the
	// serve command, so other commands only enqueue.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and opens the configured slot.
//
// Unlike the slot backends, an unreachable Redis used only for jobs is
// logged and tolerated: notifications are best effort.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	if cfg.UsesRedis() {
		server.Redis = newRedisClient(cfg, logger, loggerService)
	}

	slot, err := server.openSlot()
	if err != nil {
		server.closeResources()
		return nil, err
	}
	server.Slot = slot

	if cfg.Jobs.Enabled {
		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(cfg, logger)
		server.Job = jobService
	}

	logger.Info().
		Str("backend", cfg.Store.Backend).
		Str("key", cfg.Store.Key).
		Bool("jobs", cfg.Jobs.Enabled).
		Msg("storage ready")

	return server, nil
}

func newRedisClient(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	// Redis connections are lazy; this does not dial.
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis")
	}

	return redisClient
}

func (s *Server) openSlot() (store.Slot, error) {
	cfg := s.Config
	key := cfg.Store.Key

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemorySlot(), nil

	case config.BackendFile:
		slot, err := store.NewFileSlot(cfg.Store.DataDir, key)
		if err != nil {
			return nil, fmt.Errorf("failed to open file slot: %w", err)
		}
		return slot, nil

	case config.BackendSQLite:
		slot, err := store.NewSQLiteSlot(cfg.Store.SQLitePath, key)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite slot: %w", err)
		}
		return slot, nil

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slot := store.NewRedisSlot(s.Redis, key)
		if err := slot.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach redis slot: %w", err)
		}
		return slot, nil

	case config.BackendPostgres:
		db, err := database.New(cfg, s.Logger, s.LoggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := database.Migrate(ctx, s.Logger, cfg); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store.NewPostgresSlot(db.Pool, key), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, waiting for in-flight requests until
// ctx is done, then releases every resource.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	return s.Close()
}

// Close releases the slot, job service, database pool and Redis client.
func (s *Server) Close() error {
	if s.Job != nil {
		s.Job.Stop()
	}

	var errs []error
	if s.Slot != nil {
		if err := s.Slot.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close slot: %w", err))
		}
	}

	errs = append(errs, s.closeResources())
	return errors.Join(errs...)
}

func (s *Server) closeResources() error {
	var errs []error

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errs...)
}
