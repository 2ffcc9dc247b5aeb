// Package report renders summaries and the status view as text, JSON or YAML.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"timetracker/internal/summary"
	"timetracker/internal/timelog"
)

// EmptySummaryMessage is printed instead of a report when there is nothing to summarize.
const EmptySummaryMessage = "Cannot generate summary for empty task list."

// NotTrackingMessage is the status view when no task is active.
const NotTrackingMessage = "Not tracking any active tasks."

const rule = "-----------------------\n"

// FormatDuration renders seconds as "<h>h <m>m <s>s".
func FormatDuration(secs int64) string {
	h := secs / 3600
	m := (secs / 60) % 60
	s := secs % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// DayReport renders one day's block. Percentages compare the day's time on a
// task with that task's all-time total.
func DayReport(g summary.DayGroup, stats, aggregate summary.Stats) string {
	var sb strings.Builder
	sb.WriteString(g.Day() + " Stats\n")
	sb.WriteString(rule)
	for _, name := range stats.Names() {
		fmt.Fprintf(&sb, "%s: %s (%.2f%% of task total)\n",
			name, FormatDuration(stats[name]), Percent(stats[name], aggregate[name]))
	}
	return sb.String()
}

// AggregateReport renders all-time totals with each task's share of all tracked time.
func AggregateReport(aggregate summary.Stats) string {
	total := aggregate.Total()

	var sb strings.Builder
	sb.WriteString("Aggregate Stats\n")
	sb.WriteString(rule)
	for _, name := range aggregate.Names() {
		fmt.Fprintf(&sb, "%s: %s (%.2f%% of total time)\n",
			name, FormatDuration(aggregate[name]), Percent(aggregate[name], total))
	}
	return sb.String()
}

// Text writes every day block followed by the aggregate block, each followed
// by a blank line.
func Text(w io.Writer, s *summary.Summary) error {
	for i, g := range s.Groups {
		if _, err := fmt.Fprintln(w, DayReport(g, s.PerGroup[i], s.Aggregate)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, AggregateReport(s.Aggregate))
	return err
}

// Status writes the status view for the last log entry.
func Status(w io.Writer, last timelog.Entry, loc *time.Location, now time.Time) error {
	if last.Type != timelog.Start {
		_, err := fmt.Fprintln(w, NotTrackingMessage)
		return err
	}

	started := time.Unix(last.STime, 0).In(loc)
	_, err := fmt.Fprintf(w,
		"Currently tracked task:\n"+
			"    Task name: %s\n"+
			"    Start time: %s (%s)\n"+
			"    Notes: %s\n\n",
		last.TaskName(),
		started.Format(time.DateTime),
		humanize.RelTime(started, now, "ago", "from now"),
		last.NoteText(),
	)
	return err
}
