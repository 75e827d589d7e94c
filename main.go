package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/boolean-maybe/taskq/config"
	"github.com/boolean-maybe/taskq/internal/app"
)

// main parses flags, loads configuration and runs one filter pass.
func main() {
	flags := pflag.NewFlagSet("taskq", pflag.ExitOnError)
	tasksFile := flags.String("tasks", "tasks.yaml", "YAML file of task records")
	validateOnly := flags.Bool("validate", false, "Check query syntax and exit")
	showVersion := flags.BoolP("version", "v", false, "Print version and exit")
	// Bound to config in config.LoadConfig; declared here for --help.
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("case-sensitive", false, "Match terms case-sensitively")
	flags.Bool("strict", false, "Fail on unknown filter fields instead of skipping them")

	if err := flags.Parse(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("taskq version %s\ncommit: %s\nbuilt: %s\n",
			config.Version, config.GitCommit, config.BuildDate)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.Logging.Level)

	q := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if q == "" && *validateOnly {
		_, _ = fmt.Fprintln(os.Stderr, "error: no query given")
		os.Exit(2)
	}

	opts := app.Options{
		TasksFile:    *tasksFile,
		Query:        q,
		ValidateOnly: *validateOnly,
	}
	if err := app.Run(cfg, opts); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
