package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBillingFreezeSweep reconciles tenant frozen flags with billing status.
	TaskBillingFreezeSweep = "billing:freeze_sweep"
)

// FreezeSweepPayload carries provenance for a sweep run.
type FreezeSweepPayload struct {
	RequestedBy string    `json:"requested_by,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// NewFreezeSweepTask constructs an Asynq task for the billing sweep.
func NewFreezeSweepTask(payload FreezeSweepPayload) (*asynq.Task, error) {
	if payload.EnqueuedAt.IsZero() {
		payload.EnqueuedAt = time.Now().UTC()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBillingFreezeSweep, data), nil
}
