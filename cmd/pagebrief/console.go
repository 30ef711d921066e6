package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/pagebrief"
)

// errQuit ends the console loop.
var errQuit = errors.New("quit")

// Run executes the console command.
func (c *ConsoleCmd) Run(deps *Dependencies) error {
	return NewConsole(deps).Run()
}

// Console reads one command per line and drives the task service.
// Task events are printed as they happen.
type Console struct {
	deps     *Dependencies
	out      io.Writer
	commands map[string]consoleCommand
	order    []string
}

type consoleCommand struct {
	usage string
	help  string
	run   func(args []string) error
}

// NewConsole returns a console over deps.Stdin and deps.Stdout.
func NewConsole(deps *Dependencies) *Console {
	c := &Console{
		deps:     deps,
		out:      newSyncWriter(deps.Stdout),
		commands: make(map[string]consoleCommand),
	}
	c.register("add", "add <url>...", "Queue pages for briefing", c.add)
	c.register("list", "list", "List tasks of this session", c.list)
	c.register("show", "show <task>", "Show a task's result or error", c.show)
	c.register("restart", "restart <task>", "Queue a failed or finished task again", c.restart)
	c.register("save", "save <task>", "Save a completed task's result", c.save)
	c.register("autosave", "autosave [on|off]", "Show or change automatic saving", c.autosave)
	c.register("dir", "dir [path]", "Show or change the project directory", c.dir)
	c.register("help", "help", "Show this help", c.help)
	c.register("quit", "quit", "Leave the console", func([]string) error { return errQuit })
	c.commands["exit"] = c.commands["quit"]
	return c
}

func (c *Console) register(name, usage, help string, run func([]string) error) {
	c.commands[name] = consoleCommand{usage: usage, help: help, run: run}
	c.order = append(c.order, name)
}

// Run reads commands until quit, end of input or cancellation.
func (c *Console) Run() error {
	unsubscribe := c.deps.Tasks.Subscribe(func(event pagebrief.TaskEvent) {
		printEvent(c.out, event)
	})
	defer unsubscribe()

	fmt.Fprintln(c.out, "pagebrief console. Type 'help' for commands.")

	scanner := bufio.NewScanner(c.deps.Stdin)
	for scanner.Scan() {
		if err := c.deps.Ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		name := strings.ToLower(fields[0])
		cmd, ok := c.commands[name]
		if !ok {
			fmt.Fprintf(c.out, "unknown command %q. Type 'help' for commands.\n", name)
			continue
		}
		if err := cmd.run(fields[1:]); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(c.out, "error: %s\n", pagebrief.ErrorMessage(err))
		}
	}
	return scanner.Err()
}

func (c *Console) add(args []string) error {
	if len(args) == 0 {
		return pagebrief.Errorf(pagebrief.EINVALID, "usage: add <url>...")
	}
	for _, u := range args {
		if _, err := c.deps.Tasks.Submit(c.deps.Ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) list([]string) error {
	tasks, err := c.deps.Tasks.FindTasks(c.deps.Ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "No tasks. Use 'add <url>' to queue one.")
		return nil
	}
	for i, task := range tasks {
		line := fmt.Sprintf("%2d  %s  %-10s  %s", i+1, shortID(task.ID), task.Status, task.URL)
		if task.Result != nil && task.Result.Title != "" {
			line += "  " + task.Result.Title
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

func (c *Console) show(args []string) error {
	task, err := c.resolve(args)
	if err != nil {
		return err
	}
	printTask(c.out, task)
	return nil
}

func (c *Console) restart(args []string) error {
	task, err := c.resolve(args)
	if err != nil {
		return err
	}
	return c.deps.Tasks.Restart(c.deps.Ctx, task.ID)
}

func (c *Console) save(args []string) error {
	task, err := c.resolve(args)
	if err != nil {
		return err
	}
	path, err := c.deps.Tasks.SaveTask(c.deps.Ctx, task.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved to %s\n", path)
	return nil
}

func (c *Console) autosave(args []string) error {
	if len(args) > 0 {
		on, err := onOff(args[0])
		if err != nil {
			return err
		}
		if err := c.update(func(s *pagebrief.Settings) { s.AutoSave = on }); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "auto-save is %s\n", formatOnOff(c.deps.Tasks.Settings().AutoSave))
	return nil
}

func (c *Console) dir(args []string) error {
	if len(args) > 0 {
		dir, err := filepath.Abs(strings.Join(args, " "))
		if err != nil {
			return pagebrief.Errorf(pagebrief.EINVALID, "invalid directory: %v", err)
		}
		if err := c.update(func(s *pagebrief.Settings) { s.ProjectDirectory = dir }); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "project directory is %s\n", c.deps.Tasks.Settings().ProjectDirectory)
	return nil
}

// update applies change to the running dispatcher and saves it to the
// settings file. The runtime change stays in effect if saving fails.
func (c *Console) update(change func(*pagebrief.Settings)) error {
	runtime := c.deps.Tasks.Settings()
	change(&runtime)
	c.deps.Tasks.SetSettings(runtime)

	saved := runtime
	if c.deps.Settings != nil {
		saved = *c.deps.Settings
		change(&saved)
	}
	if err := c.deps.SettingsStore.SaveSettings(&saved); err != nil {
		return err
	}
	if c.deps.Settings != nil {
		*c.deps.Settings = saved
	}
	return nil
}

func (c *Console) help([]string) error {
	for _, name := range c.order {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "  %-20s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintln(c.out, "Tasks are named by their list number or an ID prefix.")
	return nil
}

// resolve finds the task named by a list number or a unique ID prefix.
func (c *Console) resolve(args []string) (*pagebrief.Task, error) {
	if len(args) != 1 {
		return nil, pagebrief.Errorf(pagebrief.EINVALID, "expected one task number or ID")
	}
	ref := args[0]

	tasks, err := c.deps.Tasks.FindTasks(c.deps.Ctx)
	if err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return nil, pagebrief.Errorf(pagebrief.ENOTFOUND, "no task number %d", n)
		}
		return tasks[n-1], nil
	}

	var match *pagebrief.Task
	for _, task := range tasks {
		if !strings.HasPrefix(task.ID, ref) {
			continue
		}
		if match != nil {
			return nil, pagebrief.Errorf(pagebrief.EINVALID, "task ID %q is ambiguous", ref)
		}
		match = task
	}
	if match == nil {
		return nil, pagebrief.Errorf(pagebrief.ENOTFOUND, "no task %q", ref)
	}
	return match, nil
}
