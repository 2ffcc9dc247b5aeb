package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"timetracker/internal/timelog"
)

// CSVStore keeps the log as a headerless CSV file, one entry per line.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Init(ctx context.Context) error {
	if info, err := os.Stat(s.path); err == nil && !info.IsDir() {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ioErr("create log directory", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ioErr("create log file", err)
	}
	if err := f.Close(); err != nil {
		return ioErr("create log file", err)
	}
	return nil
}

func (s *CSVStore) Append(ctx context.Context, e timelog.Entry) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ioErr("open log", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(toRecord(e)); err != nil {
		f.Close()
		return ioErr("write log", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return ioErr("write log", err)
	}
	if err := f.Close(); err != nil {
		return ioErr("close log", err)
	}
	return nil
}

// Entries reads the file from the start. A missing file is an empty log.
func (s *CSVStore) Entries(ctx context.Context) ([]timelog.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, ioErr("open log", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = recordFields
	r.ReuseRecord = true

	var entries []timelog.Entry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%s: %w: %v", s.path, timelog.ErrParse, err)
			}
			return nil, ioErr("read log", err)
		}

		e, err := fromRecord(rec)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear deletes the log file. Clearing a log that does not exist succeeds.
func (s *CSVStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ioErr("remove log", err)
	}
	return nil
}

func (s *CSVStore) Close() error {
	return nil
}
