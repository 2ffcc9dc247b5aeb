// Package store persists the work log. Every backend keeps entries in the order
// they were appended and never rewrites an entry in place.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"timetracker/internal/timelog"
)

// Store is the capability the tracker and the summary need from a log backend.
type Store interface {
	// Append adds one entry at the end of the log.
	Append(ctx context.Context, e timelog.Entry) error
	// Entries returns the whole log in append order.
	Entries(ctx context.Context) ([]timelog.Entry, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Init prepares the backend. It is idempotent.
	Init(ctx context.Context) error
	Close() error
}

// Open picks a backend from the log location and initializes it. Locations are
// either a postgres:// or redis:// URL, or a file path whose extension names the
// format.
func Open(ctx context.Context, location string) (Store, error) {
	s, err := open(location)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func open(location string) (Store, error) {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return NewPostgresStore(location)
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return NewRedisStore(location)
	}

	ext := strings.ToLower(filepath.Ext(location))
	switch ext {
	case ".csv":
		return NewCSVStore(location), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(location)
	case "":
		return nil, fmt.Errorf("%w: cannot determine log format of %q: no file extension", timelog.ErrUnsupportedFormat, location)
	}
	return nil, fmt.Errorf("%w: unrecognized log file extension %q", timelog.ErrUnsupportedFormat, ext)
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, timelog.ErrIO, err)
}

// LastEntry returns the final entry of the log, or false if the log is empty.
func LastEntry(ctx context.Context, s Store) (timelog.Entry, bool, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return timelog.Entry{}, false, err
	}
	if len(entries) == 0 {
		return timelog.Entry{}, false, nil
	}
	return entries[len(entries)-1], true, nil
}
