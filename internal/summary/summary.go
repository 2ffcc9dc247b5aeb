// Package summary turns the raw entry log into tasks grouped by calendar day
// with per-day and all-time duration totals.
package summary

import (
	"errors"
	"slices"
	"time"

	"timetracker/internal/timelog"
)

// ErrEmpty is returned by Build when the log holds no completed task.
var ErrEmpty = errors.New("nothing to summarize")

// Stats maps a task name to a total duration in seconds.
type Stats map[string]int64

// Names returns the task names in lexicographic order.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Total is the sum of all durations.
func (s Stats) Total() int64 {
	var total int64
	for _, d := range s {
		total += d
	}
	return total
}

// DayGroup holds the tasks that started on one calendar day.
type DayGroup struct {
	// Date is local midnight of the day.
	Date  time.Time
	Tasks []timelog.Task
}

// Day formats the group's date as YYYY-MM-DD.
func (g DayGroup) Day() string {
	return g.Date.Format(time.DateOnly)
}

type Summary struct {
	Groups    []DayGroup
	PerGroup  []Stats
	Aggregate Stats
}

// Build runs ParseTasks, GroupByDay and Summarize over the log.
func Build(entries []timelog.Entry, loc *time.Location) (*Summary, error) {
	tasks := ParseTasks(entries)
	if len(tasks) == 0 {
		return nil, ErrEmpty
	}

	groups := GroupByDay(tasks, loc)
	aggregate, perGroup := Summarize(groups)

	return &Summary{
		Groups:    groups,
		PerGroup:  perGroup,
		Aggregate: aggregate,
	}, nil
}

// ParseTasks pairs each entry with the one appended after it. Every pair whose
// first entry is a Start becomes a task lasting until the second entry, whatever
// that entry's type. Pairing follows append order only; timestamps are not
// assumed to increase, so a task may come out with a negative duration. A
// trailing Start has no pair and yields nothing. The result is sorted by start
// time, then name.
func ParseTasks(entries []timelog.Entry) []timelog.Task {
	var tasks []timelog.Task
	for i := 0; i+1 < len(entries); i++ {
		first, second := entries[i], entries[i+1]
		if first.Type == timelog.End {
			continue
		}

		name := first.TaskName()
		if first.Task == nil {
			name = timelog.DefaultTaskName
		}
		tasks = append(tasks, timelog.Task{
			STime: first.STime,
			Dur:   second.STime - first.STime,
			Name:  name,
		})
	}

	slices.SortFunc(tasks, timelog.CompareTasks)
	return tasks
}

// GroupByDay splits start-ordered tasks into runs sharing a calendar date in loc.
func GroupByDay(tasks []timelog.Task, loc *time.Location) []DayGroup {
	var groups []DayGroup
	for _, task := range tasks {
		date := dayOf(task.STime, loc)
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(date) {
			groups = append(groups, DayGroup{Date: date})
		}
		last := &groups[len(groups)-1]
		last.Tasks = append(last.Tasks, task)
	}
	return groups
}

// Summarize totals durations per task name across all groups and within each group.
func Summarize(groups []DayGroup) (aggregate Stats, perGroup []Stats) {
	aggregate = Stats{}
	perGroup = make([]Stats, 0, len(groups))
	for _, g := range groups {
		stats := Stats{}
		for _, task := range g.Tasks {
			stats[task.Name] += task.Dur
			aggregate[task.Name] += task.Dur
		}
		perGroup = append(perGroup, stats)
	}
	return aggregate, perGroup
}

func dayOf(stime int64, loc *time.Location) time.Time {
	t := time.Unix(stime, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
