package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"timetracker/internal/report"
	"timetracker/internal/summary"
	"timetracker/internal/timelog"
	"timetracker/internal/tracker"
)

func (a *app) startCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "start <task-name>",
		Short: "Start tracking a work task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				return t.Start(cmd.Context(), args[0], note)
			})
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "A note describing the task")
	return cmd
}

func (a *app) endCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Mark the end of the active task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				return t.End(cmd.Context())
			})
		},
	}
}

func (a *app) completeCmd() *cobra.Command {
	var req tracker.CompleteRequest
	cmd := &cobra.Command{
		Use:   "complete <task-name> <duration>",
		Short: "Add a previously completed task to the log",
		Long: `Add a previously completed task to the log.

The duration is given as H:MM:SS. Without --event-time the task is taken to
have ended now.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Task, req.Duration = args[0], args[1]
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				_, err := t.Complete(cmd.Context(), req)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&req.EventTime, "event-time", "e", "", "Start of the task as YYYY-MM-DDTHH:MM:SS")
	cmd.Flags().StringVarP(&req.Note, "note", "n", "", "A note describing the task")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the currently tracked task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				last, err := t.Status(cmd.Context())
				if err != nil {
					return err
				}
				return report.Status(cmd.OutOrStdout(), last, t.Location(), t.Now())
			})
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize time per task and per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, *summary.Summary) error
			switch format {
			case "text":
				write = report.Text
			case "json":
				write = report.JSON
			case "yaml":
				write = report.YAML
			default:
				return fmt.Errorf("%w: unknown summary format %q", timelog.ErrParse, format)
			}

			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				s, err := t.Summary(cmd.Context())
				if errors.Is(err, summary.ErrEmpty) {
					fmt.Fprintln(cmd.OutOrStdout(), report.EmptySummaryMessage)
					return nil
				}
				if err != nil {
					return err
				}
				return write(cmd.OutOrStdout(), s)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry in the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				return t.Clear(cmd.Context())
			})
		},
	}
}
