package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/scro-cloud/scro/internal/audit"
	"github.com/scro-cloud/scro/internal/session"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsSweep removes half-written session record pairs,
	// restoring the token/user both-or-neither invariant.
	TaskSessionsSweep = "sessions:sweep"
	// TaskTelemetryRollup records a telemetry summary into the audit
	// trail.
	TaskTelemetryRollup = "telemetry:rollup"
)

// NewSessionsSweepTask constructs the sweep task.
func NewSessionsSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsSweep, nil)
}

// TelemetryRollupPayload summarises one emitted snapshot.
type TelemetryRollupPayload struct {
	TotalEnergy      int `json:"totalEnergy"`
	ActiveVMs        int `json:"activeVMs"`
	LearningProgress int `json:"learningProgress"`
}

// NewTelemetryRollupTask constructs a rollup task.
func NewTelemetryRollupTask(payload TelemetryRollupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTelemetryRollup, data), nil
}

// NewSessionsSweepHandler builds the handler for TaskSessionsSweep.
func NewSessionsSweepHandler(records *session.RecordStore, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := records.SweepOrphans(ctx)
		if err != nil {
			return fmt.Errorf("sweep session records: %w", err)
		}
		if removed > 0 {
			logger.Info("swept orphaned session keys", slog.Int("removed", removed))
		}
		return nil
	}
}

// NewTelemetryRollupHandler builds the handler for TaskTelemetryRollup.
func NewTelemetryRollupHandler(auditSvc *audit.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload TelemetryRollupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		auditSvc.RecordEvent(ctx, "telemetry_rollup",
			fmt.Sprintf("total_energy=%d active_vms=%d learning_progress=%d",
				payload.TotalEnergy, payload.ActiveVMs, payload.LearningProgress))
		return nil
	}
}
