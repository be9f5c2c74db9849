package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/service-catalog/internal/lib/email"
)

// handleCatalogChangedTask logs the change and sends the notification
// email when a mailer is configured. Returning an error makes Asynq retry.
func (j *JobService) handleCatalogChangedTask(ctx context.Context, t *asynq.Task) error {
	var p CatalogChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal catalog changed payload: %w", err)
	}

	j.logger.Info().
		Str("type", TaskCatalogChanged).
		Str("action", p.Action).
		Int("service_id", p.ServiceID).
		Str("name", p.Name).
		Msg("Processing catalog change")

	if j.mailer == nil {
		return nil
	}

	err := j.mailer.SendCatalogChangedEmail(j.notifyTo, email.CatalogChangedData{
		Action:    p.Action,
		ServiceID: p.ServiceID,
		Name:      p.Name,
		At:        p.At,
	})
	if err != nil {
		j.logger.Error().
			Str("type", TaskCatalogChanged).
			Str("to", j.notifyTo).
			Err(err).
			Msg("Failed to send catalog change email")
		return err
	}

	j.logger.Info().
		Str("type", TaskCatalogChanged).
		Str("to", j.notifyTo).
		Msg("Successfully sent catalog change email")

	return nil
}
