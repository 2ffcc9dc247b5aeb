// Package tracker implements the commands that read and extend the work log:
// live start/end tracking, retroactive completion, status and summaries.
//
// The log is append-only. Every command either appends new entries or reads the
// whole log back; nothing already written is modified.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"timetracker/internal/clock"
	"timetracker/internal/store"
	"timetracker/internal/summary"
	"timetracker/internal/timelog"
)

type Tracker struct {
	store  store.Store
	clock  clock.Clock
	loc    *time.Location
	logger *log.Logger
}

// New returns a Tracker over s. A nil loc means time.Local and a nil logger
// discards debug output.
func New(s store.Store, c clock.Clock, loc *time.Location, logger *log.Logger) *Tracker {
	if c == nil {
		c = clock.System{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Tracker{store: s, clock: c, loc: loc, logger: logger}
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

func (t *Tracker) append(ctx context.Context, e timelog.Entry) error {
	if err := t.store.Append(ctx, e); err != nil {
		return err
	}
	t.logger.Printf("appended %s at %d task=%q note=%q", e.Type, e.STime, e.TaskName(), e.NoteText())
	return nil
}

// Start begins tracking task now. It does not check for an already active task:
// starting twice leaves two consecutive Start entries in the log.
func (t *Tracker) Start(ctx context.Context, task, note string) error {
	if err := validateTask(task); err != nil {
		return err
	}
	return t.append(ctx, timelog.NewStart(clock.Unix(t.clock), task, note))
}

// End closes the active task now. It fails with ErrInvalidState when the log is
// empty or already ends with an End entry.
func (t *Tracker) End(ctx context.Context) error {
	last, ok, err := store.LastEntry(ctx, t.store)
	if err != nil {
		return err
	}
	if !ok || last.Type == timelog.End {
		return fmt.Errorf("%w: no active task being tracked, cannot mark task complete", timelog.ErrInvalidState)
	}
	return t.append(ctx, timelog.NewEnd(clock.Unix(t.clock)))
}

// CompleteRequest describes a finished work period to add after the fact.
type CompleteRequest struct {
	Task string
	Note string
	// Duration in H:MM:SS.
	Duration string
	// EventTime is the period's start as YYYY-MM-DDTHH:MM:SS. When empty the
	// period is taken to end now.
	EventTime string
}

// Completed reports what Complete appended.
type Completed struct {
	STime int64
	ETime int64
	// Bracketed is set when the active task was closed before and reopened
	// after the inserted period.
	Bracketed bool
}

// Complete appends a past work period. If the log ends with an active task that
// started after the new period, that task is ended now, the period is written,
// and the task is started again now with its original name and note. The time
// between the original start and now is therefore dropped from that task.
//
// The appends are not atomic as a group: a failure part way leaves the entries
// already written in place.
func (t *Tracker) Complete(ctx context.Context, req CompleteRequest) (Completed, error) {
	if err := validateTask(req.Task); err != nil {
		return Completed{}, err
	}

	now := clock.Unix(t.clock)

	dur, err := timelog.ParseDuration(req.Duration)
	if err != nil {
		return Completed{}, err
	}

	sTime := now - dur
	if req.EventTime != "" {
		sTime, err = timelog.ParseEventTime(req.EventTime, t.loc)
		if err != nil {
			return Completed{}, err
		}
	}
	if sTime < 0 {
		return Completed{}, fmt.Errorf("%w: period would start before the Unix epoch (%d)", timelog.ErrParse, sTime)
	}
	res := Completed{STime: sTime, ETime: sTime + dur}

	last, ok, err := store.LastEntry(ctx, t.store)
	if err != nil {
		return Completed{}, err
	}

	// An active task that started after the new period must not enclose it.
	if ok && last.Type == timelog.Start && sTime < last.STime {
		res.Bracketed = true
		if err := t.append(ctx, timelog.NewEnd(now)); err != nil {
			return res, err
		}
	}

	if err := t.append(ctx, timelog.NewStart(sTime, req.Task, req.Note)); err != nil {
		return res, err
	}
	if err := t.append(ctx, timelog.NewEnd(res.ETime)); err != nil {
		return res, err
	}

	if res.Bracketed {
		reopened := timelog.Entry{
			Type:  timelog.Start,
			STime: now,
			Task:  last.Task,
			Note:  last.Note,
		}
		if err := t.append(ctx, reopened); err != nil {
			return res, err
		}
	}

	return res, nil
}

// Status returns the last entry of the log. An empty log is ErrNotFound.
func (t *Tracker) Status(ctx context.Context) (timelog.Entry, error) {
	last, ok, err := store.LastEntry(ctx, t.store)
	if err != nil {
		return timelog.Entry{}, err
	}
	if !ok {
		return timelog.Entry{}, fmt.Errorf("%w: unable to locate task for status reporting", timelog.ErrNotFound)
	}
	return last, nil
}

// Summary aggregates the whole log. It returns summary.ErrEmpty when the log
// holds no completed task.
func (t *Tracker) Summary(ctx context.Context) (*summary.Summary, error) {
	entries, err := t.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return summary.Build(entries, t.loc)
}

// Clear wipes the log.
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		return err
	}
	t.logger.Printf("cleared log")
	return nil
}

// Now is the tracker's current instant.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

func validateTask(task string) error {
	if strings.TrimSpace(task) == "" {
		return fmt.Errorf("%w: task name must not be empty", timelog.ErrParse)
	}
	return nil
}
