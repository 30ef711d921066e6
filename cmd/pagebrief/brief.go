package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/pagebrief"
)

// Run executes the brief command.
func (c *BriefCmd) Run(deps *Dependencies) error {
	for _, u := range c.URLs {
		if _, err := pagebrief.ValidateURL(u); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
			return err
		}
	}

	if c.NoSave {
		s := deps.Tasks.Settings()
		s.AutoSave = false
		deps.Tasks.SetSettings(s)
	}

	out := newSyncWriter(deps.Stdout)
	tasks, err := runTasks(deps.Ctx, deps.Tasks, out, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	var failed int
	for _, task := range tasks {
		if task.Status != pagebrief.StatusCompleted {
			failed++
			continue
		}
		fmt.Fprintln(out)
		printResult(out, task.URL, task.Result, task.SavedPath)
	}

	if failed > 0 {
		return pagebrief.Errorf(pagebrief.EFETCH, "%d of %d pages failed", failed, len(tasks))
	}
	return nil
}

// runTasks submits urls, prints their events to out and returns the final
// task snapshots in submission order once every task is terminal. Events for
// tasks submitted elsewhere are printed but never end the wait.
func runTasks(ctx context.Context, service Tasks, out io.Writer, urls []string) ([]*pagebrief.Task, error) {
	var mu sync.Mutex
	ended := make(map[string]bool)
	changed := make(chan struct{}, 1)
	unsubscribe := service.Subscribe(func(event pagebrief.TaskEvent) {
		printEvent(out, event)
		if !event.Task.Status.Terminal() {
			return
		}
		mu.Lock()
		ended[event.TaskID] = true
		mu.Unlock()
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ids := make([]string, 0, len(urls))
	for _, u := range urls {
		id, err := service.Submit(ctx, u)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	allEnded := func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, id := range ids {
			if !ended[id] {
				return false
			}
		}
		return true
	}
	for !allEnded() {
		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	unsubscribe()

	tasks := make([]*pagebrief.Task, 0, len(ids))
	for _, id := range ids {
		task, err := service.FindTaskByID(ctx, id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
