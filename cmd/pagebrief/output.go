package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/pagebrief"
)

// syncWriter serializes writes from task observers and commands.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// shortID returns the first eight characters of a task ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printEvent writes one line per task event.
func printEvent(w io.Writer, event pagebrief.TaskEvent) {
	task := event.Task
	line := fmt.Sprintf("[%s] %-10s %s", shortID(task.ID), task.Status, task.URL)

	switch task.Status {
	case pagebrief.StatusCompleted:
		line += fmt.Sprintf(" (%s)", task.Duration().Round(100*time.Millisecond))
		if task.SavedPath != "" {
			line += " -> " + task.SavedPath
		}
	case pagebrief.StatusError:
		line += ": " + task.Error
	}
	fmt.Fprintln(w, line)
}

// printResult writes a result in reading order.
func printResult(w io.Writer, sourceURL string, r *pagebrief.Result, savedPath string) {
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "# %s\n\n", title)
	fmt.Fprintf(w, "Source:   %s\n", sourceURL)
	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(r.Keywords, ", "))
	fmt.Fprintf(w, "Hashtags: %s\n", strings.Join(r.Hashtags, " "))
	if savedPath != "" {
		fmt.Fprintf(w, "Saved:    %s\n", savedPath)
	}
	fmt.Fprintf(w, "\nSummary:\n%s\n", r.Summary)
	fmt.Fprintf(w, "\nArticle:\n%s\n", r.Article)
}

// printTask writes a task's result, failure or current status.
func printTask(w io.Writer, task *pagebrief.Task) {
	switch {
	case task.Status == pagebrief.StatusCompleted && task.Result != nil:
		printResult(w, task.URL, task.Result, task.SavedPath)
	case task.Status == pagebrief.StatusError:
		fmt.Fprintf(w, "%s failed: %s\n", task.URL, task.Error)
	default:
		fmt.Fprintf(w, "%s is %s\n", task.URL, task.Status)
	}
}

// onOff parses an on/off switch value.
func onOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, pagebrief.Errorf(pagebrief.EINVALID, "expected on or off, got %q", s)
}

func formatOnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
