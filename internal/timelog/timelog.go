// Package timelog holds the append-only entry model of the work log and the
// tasks derived from it.
package timelog

import (
	"cmp"
	"fmt"
)

// EntryType marks an entry as the start or the end of a tracked period.
type EntryType int

const (
	Start EntryType = iota
	End
)

func (t EntryType) String() string {
	switch t {
	case Start:
		return "Start"
	case End:
		return "End"
	}
	return fmt.Sprintf("EntryType(%d)", int(t))
}

// ParseEntryType accepts the literal names written by String.
func ParseEntryType(s string) (EntryType, error) {
	switch s {
	case "Start":
		return Start, nil
	case "End":
		return End, nil
	}
	return 0, fmt.Errorf("%w: unknown entry type %q", ErrParse, s)
}

// Entry is one logged event. Entries are never mutated once appended.
// Task is set on Start entries only; Note is optional and only meaningful on Start.
type Entry struct {
	Type  EntryType
	STime int64
	Task  *string
	Note  *string
}

// NewStart builds a Start entry. An empty note is recorded as absent.
func NewStart(stime int64, task string, note string) Entry {
	return Entry{
		Type:  Start,
		STime: stime,
		Task:  &task,
		Note:  optional(note),
	}
}

// NewEnd builds an End entry, which carries no payload.
func NewEnd(stime int64) Entry {
	return Entry{Type: End, STime: stime}
}

// TaskName returns the task name or "" when absent.
func (e Entry) TaskName() string {
	if e.Task == nil {
		return ""
	}
	return *e.Task
}

// NoteText returns the note or "" when absent.
func (e Entry) NoteText() string {
	if e.Note == nil {
		return ""
	}
	return *e.Note
}

// Equal compares entries by STime alone. Two entries logged at the same second
// are equal whatever their type or payload.
func (e Entry) Equal(o Entry) bool {
	return CompareEntries(e, o) == 0
}

// CompareEntries orders entries by STime only; entry type does not break ties.
// Use it with slices.SortStableFunc to keep append order among equal instants.
func CompareEntries(a, b Entry) int {
	return cmp.Compare(a.STime, b.STime)
}

// DefaultTaskName names tasks whose Start entry carried no task.
const DefaultTaskName = "Task"

// Task is a work interval materialized from a Start entry and the entry after it.
// Tasks are derived on demand and never persisted.
type Task struct {
	STime int64
	Dur   int64
	Name  string
}

// CompareTasks orders tasks by start time, then by name.
func CompareTasks(a, b Task) int {
	if c := cmp.Compare(a.STime, b.STime); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
