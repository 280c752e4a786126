package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/iec-msi/quotation-backend/internal/gatesso"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryWarmup refreshes the cached gate_sso employee directory.
	TaskDirectoryWarmup = "directory:warmup"
)

// DirectoryWarmupPayload is the task payload. Reason records what triggered
// the warmup; it only shows up in logs.
type DirectoryWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewDirectoryWarmupTask constructs an Asynq task.
func NewDirectoryWarmupTask(payload DirectoryWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectoryWarmup, data), nil
}

// NewDirectoryWarmupHandler processes TaskDirectoryWarmup tasks. The warmup
// keeps employee-name enrichment answering through short remote outages; a
// failed run is retried by asynq on its own schedule.
func NewDirectoryWarmupHandler(directory *gatesso.Directory, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DirectoryWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		count, err := directory.WarmEmployeeNames(ctx)
		if err != nil {
			logger.Warn("directory warmup failed",
				slog.String("reason", payload.Reason), slog.Any("error", err))
			return err
		}
		logger.Info("directory warmup done",
			slog.String("reason", payload.Reason), slog.Int("employees", count))
		return nil
	}
}
