package pagebrief

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task lifecycle states.
const (
	StatusQueued     TaskStatus = "queued"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusError      TaskStatus = "error"
)

// Terminal returns true for states a task only leaves through a restart.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Task is one URL's brief request and its lifecycle state.
type Task struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Status    TaskStatus `json:"status"`
	Result    *Result    `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   time.Time  `json:"endedAt"`
	SavedPath string     `json:"savedPath,omitempty"`
}

// Duration returns how long the task spent processing.
// Returns 0 until the task reaches a terminal state.
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.EndedAt.IsZero() {
		return 0
	}
	return t.EndedAt.Sub(t.StartedAt)
}

// ValidateURL returns the trimmed URL or an EINVALID error if it is empty
// or not an absolute http(s) URL.
func ValidateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", Errorf(EINVALID, "URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return rawURL, nil
}

// TaskEventType identifies what happened to a task.
type TaskEventType int

const (
	TaskCreated TaskEventType = iota
	TaskStatusChanged
)

// TaskEvent notifies observers about a change to a single task.
// Task is a snapshot taken when the event was published.
type TaskEvent struct {
	Type   TaskEventType
	TaskID string
	Task   Task
}

// TaskObserver receives task events. Observers may be called concurrently
// from different workers and must not block for long.
type TaskObserver func(event TaskEvent)

// TaskService queues URLs for processing and reports their progress.
type TaskService interface {
	// Submit validates the URL, creates a queued task and returns its ID
	// without waiting for processing. Returns EINVALID for an empty or
	// malformed URL; no task is created in that case.
	Submit(ctx context.Context, url string) (string, error)

	// Restart re-queues a completed or failed task, clearing its result,
	// error, timestamps and saved path.
	// Returns ENOTFOUND if the task does not exist and ECONFLICT if the task
	// is queued or processing.
	Restart(ctx context.Context, id string) error

	// FindTaskByID returns a snapshot of the task.
	// Returns ENOTFOUND if the task does not exist.
	FindTaskByID(ctx context.Context, id string) (*Task, error)

	// FindTasks returns snapshots of all tasks in submission order.
	FindTasks(ctx context.Context) ([]*Task, error)

	// SaveTask writes a completed task's result to the project directory and
	// returns the file path. Returns ECONFLICT if the task is not completed
	// and EPERSIST if writing fails.
	SaveTask(ctx context.Context, id string) (string, error)

	// Subscribe registers an observer for task events.
	// The returned function removes the observer.
	Subscribe(fn TaskObserver) (unsubscribe func())
}
