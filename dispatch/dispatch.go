// Package dispatch runs brief tasks on a bounded pool of workers.
// It owns every task record, processes queued tasks in submission order and
// publishes each status change to subscribed observers.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pagebrief"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ensure Dispatcher implements pagebrief.TaskService at compile time.
var _ pagebrief.TaskService = (*Dispatcher)(nil)

// Dispatcher queues submitted URLs and processes them concurrently.
//
// Each worker handles one task end to end: fetch the page, run the five
// extraction steps in order, optionally save the result. At most
// Concurrency tasks are processing at any time; the rest wait in FIFO order.
type Dispatcher struct {
	Content  pagebrief.ContentFetcher
	Analyzer pagebrief.Analyzer
	Writer   pagebrief.ResultWriter

	// Records receives completed tasks when set. Optional.
	Records pagebrief.RecordService

	// Concurrency bounds the number of tasks processed at once.
	// Read by Open; defaults to the settings value.
	Concurrency int

	Logger *slog.Logger

	// Now and NewID may be replaced in tests.
	Now   func() time.Time
	NewID func() string

	settings atomic.Pointer[pagebrief.Settings]
	tasks    *store
	queue    *queue

	obsMu     sync.RWMutex
	observers map[int]pagebrief.TaskObserver
	nextObs   int

	// emitMu pairs each task change with its event.
	emitMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher returns a Dispatcher with default settings.
// Open must be called before tasks are processed.
func NewDispatcher(content pagebrief.ContentFetcher, analyzer pagebrief.Analyzer, writer pagebrief.ResultWriter) *Dispatcher {
	d := &Dispatcher{
		Content:   content,
		Analyzer:  analyzer,
		Writer:    writer,
		Now:       time.Now,
		NewID:     func() string { return uuid.New().String() },
		tasks:     newStore(),
		queue:     newQueue(),
		observers: make(map[int]pagebrief.TaskObserver),
	}
	d.SetSettings(*pagebrief.DefaultSettings("."))
	return d
}

// Open starts the dispatch loop.
func (d *Dispatcher) Open() error {
	if d.Content == nil {
		return pagebrief.Errorf(pagebrief.EINVALID, "content fetcher required")
	}
	if d.Analyzer == nil {
		return pagebrief.Errorf(pagebrief.EINVALID, "analyzer required")
	}
	if d.cancel != nil {
		return pagebrief.Errorf(pagebrief.ECONFLICT, "dispatcher already open")
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = d.Settings().Concurrency
	}
	if limit <= 0 {
		limit = pagebrief.DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx, limit)
	return nil
}

// Close stops the dispatch loop and waits for running workers to return.
// Tasks still queued stay queued.
func (d *Dispatcher) Close() error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	<-d.done
	return nil
}

// run pulls task IDs in FIFO order and hands each to a worker.
// A worker slot is taken before the queue is read and the task is claimed
// on this goroutine, so the queue order is the start order and nothing
// leaves the queue after Close.
func (d *Dispatcher) run(ctx context.Context, limit int) {
	defer close(d.done)

	var g errgroup.Group
	slots := make(chan struct{}, limit)

	for {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			_ = g.Wait()
			return
		}

		id, ok := d.queue.Pop(ctx)
		if !ok {
			break
		}
		if ctx.Err() != nil {
			d.queue.PushFront(id)
			break
		}

		task, ok := d.claim(id)
		if !ok {
			<-slots
			continue
		}
		g.Go(func() error {
			defer func() { <-slots }()
			d.process(ctx, task)
			return nil
		})
	}

	_ = g.Wait()
}

// Settings returns a copy of the settings currently in effect.
func (d *Dispatcher) Settings() pagebrief.Settings {
	return *d.settings.Load()
}

// SetSettings replaces the project directory and auto-save flag used by
// workers from now on. Concurrency changes take effect on the next Open.
func (d *Dispatcher) SetSettings(s pagebrief.Settings) {
	d.settings.Store(&s)
}

// Submit validates url, creates a queued task and returns its ID.
func (d *Dispatcher) Submit(ctx context.Context, url string) (string, error) {
	url, err := pagebrief.ValidateURL(url)
	if err != nil {
		return "", err
	}

	d.emitMu.Lock()
	task := d.tasks.add(&pagebrief.Task{
		ID:        d.NewID(),
		URL:       url,
		Status:    pagebrief.StatusQueued,
		CreatedAt: d.Now(),
	})
	d.publish(pagebrief.TaskCreated, task)
	d.emitMu.Unlock()

	d.queue.Push(task.ID)
	return task.ID, nil
}

// Restart resets a completed or failed task and queues it again.
func (d *Dispatcher) Restart(ctx context.Context, id string) error {
	_, err := d.transition(id, func(t *pagebrief.Task) error {
		if !t.Status.Terminal() {
			return pagebrief.Errorf(pagebrief.ECONFLICT, "task %q is %s; only completed or failed tasks can be restarted", id, t.Status)
		}
		t.Status = pagebrief.StatusQueued
		t.Result = nil
		t.Error = ""
		t.StartedAt = time.Time{}
		t.EndedAt = time.Time{}
		t.SavedPath = ""
		return nil
	})
	if err != nil {
		return err
	}
	d.queue.Push(id)
	return nil
}

// FindTaskByID returns a snapshot of the task.
func (d *Dispatcher) FindTaskByID(ctx context.Context, id string) (*pagebrief.Task, error) {
	task, ok := d.tasks.get(id)
	if !ok {
		return nil, pagebrief.Errorf(pagebrief.ENOTFOUND, "task %q not found", id)
	}
	return &task, nil
}

// FindTasks returns snapshots of all tasks in submission order.
func (d *Dispatcher) FindTasks(ctx context.Context) ([]*pagebrief.Task, error) {
	return d.tasks.list(), nil
}

// SaveTask writes a completed task's result to the project directory.
func (d *Dispatcher) SaveTask(ctx context.Context, id string) (string, error) {
	task, ok := d.tasks.get(id)
	if !ok {
		return "", pagebrief.Errorf(pagebrief.ENOTFOUND, "task %q not found", id)
	}
	if task.Status != pagebrief.StatusCompleted || task.Result == nil {
		return "", pagebrief.Errorf(pagebrief.ECONFLICT, "task %q is %s; only completed tasks can be saved", id, task.Status)
	}
	if d.Writer == nil {
		return "", pagebrief.Errorf(pagebrief.EPERSIST, "no result writer configured")
	}

	path, err := d.Writer.SaveResult(ctx, d.Settings().ProjectDirectory, task.URL, task.Result)
	if err != nil {
		if pagebrief.ErrorCode(err) != pagebrief.EPERSIST {
			err = pagebrief.Errorf(pagebrief.EPERSIST, "saving task %q: %s", id, errorText(err))
		}
		return "", err
	}

	_, err = d.transition(id, func(t *pagebrief.Task) error {
		if t.Status != pagebrief.StatusCompleted || t.Result != task.Result {
			return pagebrief.Errorf(pagebrief.ECONFLICT, "task %q changed while saving", id)
		}
		t.SavedPath = path
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Subscribe registers an observer for task events. Observers run on the
// goroutine that made the change and must not call Submit, Restart or
// SaveTask.
func (d *Dispatcher) Subscribe(fn pagebrief.TaskObserver) func() {
	d.obsMu.Lock()
	key := d.nextObs
	d.nextObs++
	d.observers[key] = fn
	d.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.obsMu.Lock()
			delete(d.observers, key)
			d.obsMu.Unlock()
		})
	}
}

// Wait blocks until the task reaches a terminal state and returns it.
func (d *Dispatcher) Wait(ctx context.Context, id string) (*pagebrief.Task, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := d.Subscribe(func(event pagebrief.TaskEvent) {
		if event.TaskID != id {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		task, ok := d.tasks.get(id)
		if !ok {
			return nil, pagebrief.Errorf(pagebrief.ENOTFOUND, "task %q not found", id)
		}
		if task.Status.Terminal() {
			return &task, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Pending returns the number of tasks waiting for a worker.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

// transition applies fn to the task and publishes the change as one step,
// so observers see each task's changes in the order they were made.
func (d *Dispatcher) transition(id string, fn func(*pagebrief.Task) error) (pagebrief.Task, error) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	task, err := d.tasks.update(id, fn)
	if err != nil {
		return task, err
	}
	d.publish(pagebrief.TaskStatusChanged, task)
	return task, nil
}

// publish delivers an event to every observer on the calling goroutine.
func (d *Dispatcher) publish(typ pagebrief.TaskEventType, task pagebrief.Task) {
	d.obsMu.RLock()
	observers := make([]pagebrief.TaskObserver, 0, len(d.observers))
	for _, fn := range d.observers {
		observers = append(observers, fn)
	}
	d.obsMu.RUnlock()

	event := pagebrief.TaskEvent{Type: typ, TaskID: task.ID, Task: task}
	for _, fn := range observers {
		fn(event)
	}
}

// process is the worker body for a single task.
// claim moves a queued task to processing.
func (d *Dispatcher) claim(id string) (pagebrief.Task, bool) {
	task, err := d.transition(id, func(t *pagebrief.Task) error {
		if t.Status != pagebrief.StatusQueued {
			return pagebrief.Errorf(pagebrief.ECONFLICT, "task %q is %s, not queued", id, t.Status)
		}
		t.Status = pagebrief.StatusProcessing
		t.StartedAt = d.Now()
		return nil
	})
	if err != nil {
		d.logger().Warn("skip task", "task", id, "err", err)
		return pagebrief.Task{}, false
	}
	return task, true
}

// process runs a claimed task to completion or error.
func (d *Dispatcher) process(ctx context.Context, task pagebrief.Task) {
	id := task.ID

	defer func() {
		if r := recover(); r != nil {
			d.logger().Error("task panicked", "task", id, "panic", r)
			d.fail(id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	content, err := d.Content.FetchContent(ctx, task.URL)
	if err == nil && (content == nil || strings.TrimSpace(content.Text) == "") {
		err = pagebrief.Errorf(pagebrief.EFETCH, "no content extracted from %s", task.URL)
	}
	if err != nil {
		d.fail(id, "fetch failed: "+errorText(err))
		return
	}

	result := d.analyze(ctx, &task, content)

	var savedPath string
	if settings := d.Settings(); settings.AutoSave && d.Writer != nil {
		path, err := d.Writer.SaveResult(ctx, settings.ProjectDirectory, task.URL, result)
		if err != nil {
			d.logger().Warn("auto-save failed", "task", id, "url", task.URL, "err", err)
		} else {
			savedPath = path
		}
	}

	task, err = d.transition(id, func(t *pagebrief.Task) error {
		t.Status = pagebrief.StatusCompleted
		t.Result = result
		t.SavedPath = savedPath
		t.EndedAt = d.Now()
		return nil
	})
	if err != nil {
		d.logger().Error("complete task", "task", id, "err", err)
		return
	}

	if d.Records != nil {
		// The task already completed; shutdown must not lose its history entry.
		if err := d.Records.CreateRecord(context.WithoutCancel(ctx), pagebrief.NewRecord(&task)); err != nil {
			d.logger().Warn("record history", "task", id, "err", err)
		}
	}
}

// analyze runs the extraction steps in fixed order. A failed step leaves
// its field empty and does not stop the remaining steps.
func (d *Dispatcher) analyze(ctx context.Context, task *pagebrief.Task, content *pagebrief.Content) *pagebrief.Result {
	var r pagebrief.Result
	failed := 0
	check := func(field string, err error) bool {
		if err == nil {
			return true
		}
		failed++
		d.logger().Warn("extraction failed", "task", task.ID, "field", field, "err", err)
		return false
	}

	if title, err := d.Analyzer.Title(ctx, content); check("title", err) {
		r.Title = title
	}
	if keywords, err := d.Analyzer.Keywords(ctx, content); check("keywords", err) {
		r.Keywords = keywords
	}
	if summary, err := d.Analyzer.Summary(ctx, content); check("summary", err) {
		r.Summary = summary
	}
	if hashtags, err := d.Analyzer.Hashtags(ctx, content); check("hashtags", err) {
		r.Hashtags = hashtags
	}
	if article, err := d.Analyzer.Article(ctx, content); check("article", err) {
		r.Article = article
	}

	// A fully failed extraction still completes with an empty result.
	if failed == 5 {
		d.logger().Warn("all extraction steps failed", "task", task.ID, "url", task.URL)
	}
	return &r
}

// fail moves a processing task to the error state.
func (d *Dispatcher) fail(id string, message string) {
	_, err := d.transition(id, func(t *pagebrief.Task) error {
		if t.Status != pagebrief.StatusProcessing {
			return pagebrief.Errorf(pagebrief.ECONFLICT, "task %q is %s, not processing", id, t.Status)
		}
		t.Status = pagebrief.StatusError
		t.Error = message
		t.EndedAt = d.Now()
		return nil
	})
	if err != nil {
		d.logger().Error("fail task", "task", id, "err", err)
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// errorText prefers the application message and falls back to the raw error.
func errorText(err error) string {
	if pagebrief.ErrorCode(err) == pagebrief.EINTERNAL {
		return err.Error()
	}
	return pagebrief.ErrorMessage(err)
}
