// Package app wires the config, task fixtures, store and query engine into
// the command-line filter run.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/boolean-maybe/taskq/config"
	"github.com/boolean-maybe/taskq/query"
	"github.com/boolean-maybe/taskq/store"
	"github.com/boolean-maybe/taskq/task"
)

// Options are the command-line inputs for one run.
type Options struct {
	TasksFile    string
	Query        string
	ValidateOnly bool
}

// Run executes a filter run: load tasks, parse the query once, evaluate it
// per task, print matches. In validate mode only the parse happens.
func Run(cfg *config.Config, opts Options) error {
	if opts.ValidateOnly {
		if _, err := query.ParseQuery(opts.Query); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	}

	tasks, err := task.LoadFile(opts.TasksFile)
	if err != nil {
		return err
	}

	st := store.NewMemoryStore()
	for _, t := range tasks {
		if verr := task.Validate(t); verr != nil {
			slog.Warn("skipping invalid task", "id", t.ID, "error", verr)
			continue
		}
		if err := st.Add(t); err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
	}

	matched, err := st.Filter(opts.Query, cfg.Settings(time.Now()))
	if err != nil {
		return err
	}

	for _, t := range matched {
		text := t.Text
		if text == "" {
			text = t.RawText
		}
		fmt.Printf("%s\t%s\n", t.Path, text)
	}
	slog.Debug("filter run complete", "matched", len(matched), "total", len(tasks))
	return nil
}
