package report

import (
	"encoding/json"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"timetracker/internal/summary"
)

// Document is the machine-readable form of a summary.
type Document struct {
	Days         []Day  `json:"days" yaml:"days"`
	Aggregate    []Line `json:"aggregate" yaml:"aggregate"`
	TotalSeconds int64  `json:"total_seconds" yaml:"total_seconds"`
}

type Day struct {
	Date  string `json:"date" yaml:"date"`
	Tasks []Line `json:"tasks" yaml:"tasks"`
}

// Line is one task's total. In a Day, Percent is the share of the task's
// all-time total; in Aggregate it is the share of all tracked time.
type Line struct {
	Task     string  `json:"task" yaml:"task"`
	Seconds  int64   `json:"seconds" yaml:"seconds"`
	Duration string  `json:"duration" yaml:"duration"`
	Percent  float64 `json:"percent" yaml:"percent"`
}

func NewDocument(s *summary.Summary) Document {
	doc := Document{TotalSeconds: s.Aggregate.Total()}

	for i, g := range s.Groups {
		stats := s.PerGroup[i]
		day := Day{Date: g.Day()}
		for _, name := range stats.Names() {
			day.Tasks = append(day.Tasks, newLine(name, stats[name], s.Aggregate[name]))
		}
		doc.Days = append(doc.Days, day)
	}

	for _, name := range s.Aggregate.Names() {
		doc.Aggregate = append(doc.Aggregate, newLine(name, s.Aggregate[name], doc.TotalSeconds))
	}
	return doc
}

func newLine(name string, secs, whole int64) Line {
	return Line{
		Task:     name,
		Seconds:  secs,
		Duration: FormatDuration(secs),
		Percent:  math.Round(Percent(secs, whole)*100) / 100,
	}
}

func JSON(w io.Writer, s *summary.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(s))
}

func YAML(w io.Writer, s *summary.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(s)); err != nil {
		return err
	}
	return enc.Close()
}
