package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/novelpress/novelpress/internal/syslog"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSystemLog is the task type for persisting a system log entry.
	TaskTypeSystemLog = "syslog:record"
	// TaskTypeSyslogPurge is the task type for trimming old log entries.
	TaskTypeSyslogPurge = "syslog:purge"
)

// SystemLogPayload carries one system log entry to the worker.
type SystemLogPayload struct {
	Event      string    `json:"event"`
	Actor      string    `json:"actor"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurredAt"`
}

// SyslogPurgePayload configures a purge run.
type SyslogPurgePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewSystemLogTask constructs an Asynq task.
func NewSystemLogTask(payload SystemLogPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSystemLog, data), nil
}

// NewSyslogPurgeTask constructs an Asynq task.
func NewSyslogPurgeTask(payload SyslogPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSyslogPurge, data), nil
}

// NewSystemLogHandler returns the handler for TaskTypeSystemLog tasks.
func NewSystemLogHandler(svc *syslog.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SystemLogPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return svc.Record(ctx, syslog.Entry{
			Event:      payload.Event,
			Actor:      payload.Actor,
			Detail:     payload.Detail,
			OccurredAt: payload.OccurredAt,
		})
	}
}

// NewSyslogPurgeHandler returns the handler for TaskTypeSyslogPurge tasks.
func NewSyslogPurgeHandler(svc *syslog.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SyslogPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		retention := syslog.DefaultRetention
		if payload.RetentionDays > 0 {
			retention = time.Duration(payload.RetentionDays) * 24 * time.Hour
		}
		_, err := svc.Purge(ctx, retention)
		return err
	}
}
