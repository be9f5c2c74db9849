package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskCatalogChanged is the job type name stored in Redis.
const TaskCatalogChanged = "catalog:changed"

// Change actions carried by CatalogChangedPayload.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CatalogChangedPayload describes one successful mutation.
type CatalogChangedPayload struct {
	Action    string    `json:"action"`
	ServiceID int       `json:"service_id"`
	Name      string    `json:"name"`
	At        time.Time `json:"at"`
}

// NewCatalogChangedTask serializes payload into an Asynq task.
//
// Notifications are best effort: few retries, low priority queue, and a
// short timeout.
func NewCatalogChangedTask(payload CatalogChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskCatalogChanged,
		data,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
