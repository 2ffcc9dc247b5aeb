// Package cli wires the tt commands to the tracker.
package cli

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"timetracker/internal/clock"
	"timetracker/internal/config"
	"timetracker/internal/store"
	"timetracker/internal/tracker"
)

// Options lets callers replace the process-wide collaborators.
type Options struct {
	Clock  clock.Clock
	Stdout io.Writer
	Stderr io.Writer
}

type app struct {
	opts    Options
	logPath string
	debug   bool
}

// NewRootCmd builds the tt command tree.
func NewRootCmd(version string, opts Options) *cobra.Command {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:   "tt",
		Short: "Track time spent working on tasks",
		Long: `tt records when work on a task starts and ends in an append-only log
and summarizes the time spent per task and per day.

The log location comes from --log, the TT_LOG environment variable, the "log"
key of the config file named by TT_CONF, or ~/.time-tracker/log.csv. The file
extension picks the format: .csv, or .db/.sqlite for SQLite. postgres:// and
redis:// URLs are accepted too.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if opts.Stdout != nil {
		rootCmd.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		rootCmd.SetErr(opts.Stderr)
	}

	rootCmd.PersistentFlags().StringVar(&a.logPath, "log", "", "Log location, overriding TT_LOG and the config file")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Print every appended entry to stderr")

	rootCmd.AddCommand(
		a.startCmd(),
		a.endCmd(),
		a.completeCmd(),
		a.statusCmd(),
		a.summaryCmd(),
		a.clearCmd(),
		a.watchCmd(),
	)
	return rootCmd
}

// Execute runs tt with the process arguments.
func Execute(version string) error {
	return NewRootCmd(version, Options{}).Execute()
}

// withTracker resolves configuration, opens the log and runs fn against it.
func (a *app) withTracker(cmd *cobra.Command, fn func(*tracker.Tracker) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logPath != "" {
		if cfg.Log, err = config.ResolveLocation(a.logPath); err != nil {
			return err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "tt: ", 0)
	if a.debug || cfg.Debug {
		logger.SetOutput(cmd.ErrOrStderr())
	}
	if cfg.ConfigFile != "" {
		logger.Printf("config file %s", cfg.ConfigFile)
	}
	logger.Printf("log %s", cfg.Log)

	s, err := store.Open(cmd.Context(), cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Printf("failed to close log: %v", err)
		}
	}()

	return fn(tracker.New(s, a.opts.Clock, loc, logger))
}
