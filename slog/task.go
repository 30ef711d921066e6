package slog

import (
	"log/slog"

	"github.com/fwojciec/pagebrief"
)

// TaskLogger logs task lifecycle events. Register Observe with
// TaskService.Subscribe.
type TaskLogger struct {
	logger *slog.Logger
}

// NewTaskLogger creates a new TaskLogger.
func NewTaskLogger(logger *slog.Logger) *TaskLogger {
	return &TaskLogger{logger: logger}
}

// Observe logs one task event. Failures log at warn level, the rest at info.
func (l *TaskLogger) Observe(event pagebrief.TaskEvent) {
	task := event.Task
	attrs := []any{"task", task.ID, "url", task.URL, "status", task.Status}

	switch {
	case event.Type == pagebrief.TaskCreated:
		l.logger.Info("task queued", attrs...)
	case task.Status == pagebrief.StatusError:
		l.logger.Warn("task failed", append(attrs, "duration", task.Duration(), "err", task.Error)...)
	case task.Status == pagebrief.StatusCompleted:
		if task.SavedPath != "" {
			attrs = append(attrs, "path", task.SavedPath)
		}
		l.logger.Info("task completed", append(attrs, "duration", task.Duration())...)
	default:
		l.logger.Info("task status", attrs...)
	}
}
