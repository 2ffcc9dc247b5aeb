package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/clock"
	"timetracker/internal/config"
	"timetracker/internal/report"
	"timetracker/internal/timelog"
)

type testEnv struct {
	clock *clock.Manual
	log   string
}

// setupEnv points tt at a fresh CSV log in a temporary home with days bucketed in UTC.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	conf := filepath.Join(home, "conf.toml")
	require.NoError(t, os.WriteFile(conf, []byte("timezone = \"UTC\"\n"), 0644))
	t.Setenv(config.ConfigKey, conf)

	logPath := filepath.Join(home, "tt", "log.csv")
	t.Setenv(config.LogKey, logPath)

	return &testEnv{
		clock: clock.NewManual(time.Date(2022, 11, 7, 9, 0, 0, 0, time.UTC)),
		log:   logPath,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test", Options{Clock: e.clock, Stdout: &stdout, Stderr: &stderr})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := e.run(t, args...)
	require.NoError(t, err)
	return out
}

func TestTrackingSession(t *testing.T) {
	env := setupEnv(t)

	out := env.mustRun(t, "start", "writing", "--note", "chapter 2")
	assert.Empty(t, out)

	env.clock.Advance(30 * time.Minute)
	out = env.mustRun(t, "status")
	assert.Contains(t, out, "Task name: writing")
	assert.Contains(t, out, "Start time: 2022-11-07 09:00:00 (30 minutes ago)")
	assert.Contains(t, out, "Notes: chapter 2")

	env.mustRun(t, "end")
	out = env.mustRun(t, "status")
	assert.Equal(t, report.NotTrackingMessage+"\n", out)

	env.clock.Advance(time.Hour)
	env.mustRun(t, "complete", "review", "0:15:00", "-n", "pr 12")

	out = env.mustRun(t, "summary")
	assert.Equal(t,
		"2022-11-07 Stats\n"+
			"-----------------------\n"+
			"review: 0h 15m 0s (100.00% of task total)\n"+
			"writing: 0h 30m 0s (100.00% of task total)\n"+
			"\n"+
			"Aggregate Stats\n"+
			"-----------------------\n"+
			"review: 0h 15m 0s (33.33% of total time)\n"+
			"writing: 0h 30m 0s (66.67% of total time)\n"+
			"\n",
		out)

	raw, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Equal(t,
		"Start,1667811600,writing,chapter 2\n"+
			"End,1667813400,,\n"+
			"Start,1667816100,review,pr 12\n"+
			"End,1667817000,,\n",
		string(raw))
}

func TestCompleteBracketsActiveTask(t *testing.T) {
	env := setupEnv(t)

	env.mustRun(t, "start", "writing")
	env.clock.Advance(time.Hour)
	env.mustRun(t, "complete", "standup", "0:15:00", "--event-time", "2022-11-07T08:30:00")

	out := env.mustRun(t, "status")
	assert.Contains(t, out, "Task name: writing")
	assert.Contains(t, out, "Start time: 2022-11-07 10:00:00")

	raw, err := os.ReadFile(env.log)
	require.NoError(t, err)
	assert.Equal(t,
		"Start,1667811600,writing,\n"+
			"End,1667815200,,\n"+
			"Start,1667809800,standup,\n"+
			"End,1667810700,,\n"+
			"Start,1667815200,writing,\n",
		string(raw))
}

func TestSummaryFormats(t *testing.T) {
	env := setupEnv(t)
	env.mustRun(t, "complete", "review", "1:00:00")

	out := env.mustRun(t, "summary", "--format", "json")
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, int64(3600), doc.TotalSeconds)
	require.Len(t, doc.Days, 1)
	assert.Equal(t, "2022-11-07", doc.Days[0].Date)

	out = env.mustRun(t, "summary", "-f", "yaml")
	assert.Contains(t, out, "task: review")

	_, _, err := env.run(t, "summary", "--format", "xml")
	assert.ErrorIs(t, err, timelog.ErrParse)
}

func TestSummaryEmptyLog(t *testing.T) {
	env := setupEnv(t)

	out := env.mustRun(t, "summary")
	assert.Equal(t, report.EmptySummaryMessage+"\n", out)

	env.mustRun(t, "start", "writing")
	out = env.mustRun(t, "summary")
	assert.Equal(t, report.EmptySummaryMessage+"\n", out)
}

func TestCommandErrors(t *testing.T) {
	t.Run("end without active task", func(t *testing.T) {
		env := setupEnv(t)
		_, _, err := env.run(t, "end")
		assert.ErrorIs(t, err, timelog.ErrInvalidState)
	})

	t.Run("status on empty log", func(t *testing.T) {
		env := setupEnv(t)
		_, _, err := env.run(t, "status")
		assert.ErrorIs(t, err, timelog.ErrNotFound)
	})

	t.Run("bad duration", func(t *testing.T) {
		env := setupEnv(t)
		_, _, err := env.run(t, "complete", "review", "15m")
		assert.ErrorIs(t, err, timelog.ErrParse)
	})

	t.Run("period before 1970 leaves the log readable", func(t *testing.T) {
		env := setupEnv(t)
		env.mustRun(t, "start", "writing")
		_, _, err := env.run(t, "complete", "old", "1:00:00", "-e", "1969-12-31T20:00:00")
		assert.ErrorIs(t, err, timelog.ErrParse)
		_, _, err = env.run(t, "complete", "huge", "500000:00:00")
		assert.ErrorIs(t, err, timelog.ErrParse)

		assert.Contains(t, env.mustRun(t, "status"), "writing")
		env.mustRun(t, "summary")
	})

	t.Run("unsupported log format", func(t *testing.T) {
		env := setupEnv(t)
		_, _, err := env.run(t, "--log", filepath.Join(t.TempDir(), "log.txt"), "status")
		assert.ErrorIs(t, err, timelog.ErrUnsupportedFormat)
	})

	t.Run("missing argument", func(t *testing.T) {
		env := setupEnv(t)
		_, _, err := env.run(t, "start")
		assert.Error(t, err)
	})
}

func TestClear(t *testing.T) {
	env := setupEnv(t)
	env.mustRun(t, "complete", "review", "1:00:00")

	env.mustRun(t, "clear")
	_, _, err := env.run(t, "status")
	assert.ErrorIs(t, err, timelog.ErrNotFound)
}

func TestLogFlagSelectsSQLite(t *testing.T) {
	env := setupEnv(t)
	db := filepath.Join(t.TempDir(), "log.db")

	env.mustRun(t, "--log", db, "start", "writing")
	env.clock.Advance(time.Minute)
	env.mustRun(t, "--log", db, "end")

	out := env.mustRun(t, "--log", db, "summary")
	assert.Contains(t, out, "writing: 0h 1m 0s (100.00% of total time)")

	_, err := os.Stat(env.log)
	assert.True(t, os.IsNotExist(err))
}

func TestDebugFlag(t *testing.T) {
	env := setupEnv(t)

	_, stderr, err := env.run(t, "--debug", "start", "writing")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tt: log "+env.log)
	assert.Contains(t, stderr, `tt: appended Start at 1667811600 task="writing"`)
}
