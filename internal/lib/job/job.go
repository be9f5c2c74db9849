// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
//
// The catalog enqueues one task per successful change; the worker logs it
// and, when configured, emails a notification.
package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/service-catalog/internal/config"
	"github.com/deppfellow/service-catalog/internal/lib/email"
)

// Mailer sends the change notification email.
type Mailer interface {
	SendCatalogChangedEmail(to string, data email.CatalogChangedData) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	logger *zerolog.Logger

	// mailer and notifyTo are set by InitHandlers; without them the
	// worker only logs.
	mailer   Mailer
	notifyTo string
}

// NewJobService creates a JobService configured to use Redis from cfg.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	// Catalog notifications are low volume; a small pool on two queues
	// is enough.
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers wires the email client used by the change handler. It is
// a no-op unless both a Resend API key and a notify address are configured.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Integration.ResendAPIKey == "" || cfg.Jobs.NotifyEmail == "" {
		logger.Info().Msg("catalog change emails disabled")
		return
	}
	j.mailer = email.NewClient(cfg, logger)
	j.notifyTo = cfg.Jobs.NotifyEmail
}

// NotifyCatalogChanged enqueues a catalog:changed task.
func (j *JobService) NotifyCatalogChanged(ctx context.Context, payload CatalogChangedPayload) error {
	task, err := NewCatalogChangedTask(payload)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("action", payload.Action).
		Int("service_id", payload.ServiceID).
		Msg("enqueued catalog change")

	return nil
}

// Start registers the task handlers and starts the worker server.
// asynq's Start does not block.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskCatalogChanged, j.handleCatalogChangedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
