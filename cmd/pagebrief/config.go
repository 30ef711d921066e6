package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fwojciec/pagebrief"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	printSettings(deps.Stdout, deps.ConfigPath, deps.Settings)
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	s := *deps.Settings
	changed, err := c.apply(&s)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}
	if !changed {
		err := pagebrief.Errorf(pagebrief.EINVALID, "nothing to change. Run 'pagebrief config set --help' to see settings")
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}

	if err := deps.SettingsStore.SaveSettings(&s); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebrief.ErrorMessage(err))
		return err
	}
	*deps.Settings = s

	fmt.Fprintf(deps.Stdout, "Saved settings to %s\n", deps.ConfigPath)
	printSettings(deps.Stdout, deps.ConfigPath, &s)
	return nil
}

// apply copies the given flags onto s and reports whether any were set.
func (c *ConfigSetCmd) apply(s *pagebrief.Settings) (bool, error) {
	var changed bool

	if c.Dir != "" {
		dir, err := filepath.Abs(c.Dir)
		if err != nil {
			return false, pagebrief.Errorf(pagebrief.EINVALID, "invalid directory: %v", err)
		}
		s.ProjectDirectory = dir
		changed = true
	}
	if c.AutoSave != "" {
		on, err := onOff(c.AutoSave)
		if err != nil {
			return false, err
		}
		s.AutoSave = on
		changed = true
	}
	if c.Concurrency != 0 {
		s.Concurrency = c.Concurrency
		changed = true
	}
	if c.Provider != "" {
		if c.Provider != s.Provider && c.Model == "" {
			// Model names don't carry over between providers.
			s.Model = ""
		}
		s.Provider = c.Provider
		changed = true
	}
	if c.Model != "" {
		s.Model = c.Model
		if c.Model == "default" {
			s.Model = ""
		}
		changed = true
	}
	if c.Browser != "" {
		on, err := onOff(c.Browser)
		if err != nil {
			return false, err
		}
		s.Browser = on
		changed = true
	}

	return changed, s.Validate()
}

func printSettings(w io.Writer, path string, s *pagebrief.Settings) {
	model := s.Model
	if model == "" {
		model = "(provider default)"
	}
	fmt.Fprintf(w, "config:            %s\n", path)
	fmt.Fprintf(w, "project directory: %s\n", s.ProjectDirectory)
	fmt.Fprintf(w, "auto-save:         %s\n", formatOnOff(s.AutoSave))
	fmt.Fprintf(w, "concurrency:       %d\n", s.Concurrency)
	fmt.Fprintf(w, "provider:          %s\n", s.Provider)
	fmt.Fprintf(w, "model:             %s\n", model)
	fmt.Fprintf(w, "browser:           %s\n", formatOnOff(s.Browser))
}
