package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"timetracker/internal/timelog"
)

// A record is the four-field row shared by the CSV file and the Redis list:
// entry_type, stime, task, note. Empty task/note fields mean absent.
const recordFields = 4

func toRecord(e timelog.Entry) []string {
	return []string{
		e.Type.String(),
		strconv.FormatInt(e.STime, 10),
		e.TaskName(),
		e.NoteText(),
	}
}

func fromRecord(rec []string) (timelog.Entry, error) {
	if len(rec) != recordFields {
		return timelog.Entry{}, fmt.Errorf("%w: expected %d fields, got %d", timelog.ErrParse, recordFields, len(rec))
	}

	typ, err := timelog.ParseEntryType(rec[0])
	if err != nil {
		return timelog.Entry{}, err
	}

	stime, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil || stime < 0 {
		return timelog.Entry{}, fmt.Errorf("%w: invalid stime %q", timelog.ErrParse, rec[1])
	}

	return timelog.Entry{
		Type:  typ,
		STime: stime,
		Task:  optional(rec[2]),
		Note:  optional(rec[3]),
	}, nil
}

// encodeLine renders a record as a single CSV line without the trailing newline.
func encodeLine(e timelog.Entry) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(toRecord(e)); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func decodeLine(line string) (timelog.Entry, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = recordFields
	rec, err := r.Read()
	if err != nil {
		return timelog.Entry{}, fmt.Errorf("%w: %v", timelog.ErrParse, err)
	}
	return fromRecord(rec)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
