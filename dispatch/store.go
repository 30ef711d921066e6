package dispatch

import (
	"sync"

	"github.com/fwojciec/pagebrief"
)

// store holds the dispatcher's task records.
// Records never leave the store; callers receive copies, so a reader never
// sees a task halfway through an update.
type store struct {
	mu    sync.RWMutex
	tasks map[string]*pagebrief.Task
	order []string
}

func newStore() *store {
	return &store{tasks: make(map[string]*pagebrief.Task)}
}

// add inserts a new task and returns a snapshot of it.
func (s *store) add(task *pagebrief.Task) pagebrief.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return *task
}

// get returns a snapshot of the task with the given ID.
func (s *store) get(id string) (pagebrief.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return pagebrief.Task{}, false
	}
	return *task, true
}

// list returns snapshots of all tasks in insertion order.
func (s *store) list() []*pagebrief.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pagebrief.Task, 0, len(s.order))
	for _, id := range s.order {
		task := *s.tasks[id]
		out = append(out, &task)
	}
	return out
}

// update applies fn to the task under the write lock and returns a snapshot
// of the result. If fn returns an error the task is left unchanged.
func (s *store) update(id string, fn func(task *pagebrief.Task) error) (pagebrief.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return pagebrief.Task{}, pagebrief.Errorf(pagebrief.ENOTFOUND, "task %q not found", id)
	}

	draft := *task
	if err := fn(&draft); err != nil {
		return *task, err
	}
	*task = draft
	return draft, nil
}
