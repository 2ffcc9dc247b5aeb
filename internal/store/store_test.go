package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/timelog"
)

func sampleEntries() []timelog.Entry {
	return []timelog.Entry{
		timelog.NewStart(100, "writing", ""),
		timelog.NewEnd(200),
		timelog.NewStart(300, "review, round 2", `said "ok"`),
		timelog.NewEnd(350),
		{Type: timelog.Start, STime: 400},
	}
}

// assertRoundTrip appends the sample entries and checks they read back
// unchanged, with absent task/note still absent.
func assertRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, e := range sampleEntries() {
		require.NoError(t, s.Append(ctx, e))
	}

	got, err := s.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	last, ok, err := LastEntry(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(400), last.STime)
	assert.Nil(t, last.Task)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok, err = LastEntry(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRoundTrip(t *testing.T) {
	assertRoundTrip(t, NewMemory())
}

func TestCSVRoundTrip(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "log.csv"))
	require.NoError(t, s.Init(context.Background()))
	assertRoundTrip(t, s)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "log.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.Init(context.Background()))
	assertRoundTrip(t, s)
}

func TestRedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Init(context.Background()))
	assertRoundTrip(t, s)
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	s, err := NewRedisStore("redis://" + addr)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.ErrorIs(t, s.Init(context.Background()), timelog.ErrIO)
}

func TestRedisStoreCorruptElement(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	_, err = mr.Push(RedisKey, "Start,100,a,", "Pause,200,,")
	require.NoError(t, err)

	s, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Entries(context.Background())
	assert.ErrorIs(t, err, timelog.ErrParse)
}

func TestCSVFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	s := NewCSVStore(path)
	ctx := context.Background()

	for _, e := range sampleEntries() {
		require.NoError(t, s.Append(ctx, e))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Start,100,writing,\n"+
			"End,200,,\n"+
			"Start,300,\"review, round 2\",\"said \"\"ok\"\"\"\n"+
			"End,350,,\n"+
			"Start,400,,\n",
		string(raw))
}

func TestCSVReadsExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, []byte("Start,1667815200,my_task,\nEnd,1667815205,,\n"), 0644))

	entries, err := NewCSVStore(path).Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "my_task", entries[0].TaskName())
	assert.Nil(t, entries[0].Note)
	assert.Equal(t, timelog.End, entries[1].Type)
	assert.Equal(t, int64(1667815205), entries[1].STime)
}

func TestCSVCorruptLog(t *testing.T) {
	tests := map[string]string{
		"unknown type":   "Start,1,a,\nPause,2,,\n",
		"bad stime":      "Start,soon,a,\n",
		"negative stime": "Start,-5,a,\n",
		"missing field":  "Start,1,a\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "log.csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := NewCSVStore(path).Entries(context.Background())
			assert.ErrorIs(t, err, timelog.ErrParse)
		})
	}
}

func TestCSVMissingFile(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"))

	entries, err := s.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, s.Clear(context.Background()))
}

func TestCSVClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	s := NewCSVStore(path)
	require.NoError(t, s.Append(context.Background(), timelog.NewEnd(1)))

	require.NoError(t, s.Clear(context.Background()))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("csv creates directory and file", func(t *testing.T) {
		path := filepath.Join(dir, "a", "b", "log.csv")
		s, err := Open(ctx, path)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.IsType(t, &CSVStore{}, s)
		_, err = os.Stat(path)
		assert.NoError(t, err)

		// Init on an existing file leaves it alone.
		require.NoError(t, s.Append(ctx, timelog.NewEnd(1)))
		require.NoError(t, s.Init(ctx))
		entries, err := s.Entries(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("extension is case insensitive", func(t *testing.T) {
		s, err := Open(ctx, filepath.Join(dir, "LOG.CSV"))
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &CSVStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, filepath.Join(dir, "log.sqlite"))
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &SQLStore{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		s, err := Open(ctx, "redis://"+mr.Addr())
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &RedisStore{}, s)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Open(ctx, filepath.Join(dir, "log.json"))
		assert.ErrorIs(t, err, timelog.ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), ".json")
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := Open(ctx, filepath.Join(dir, "log"))
		assert.ErrorIs(t, err, timelog.ErrUnsupportedFormat)
	})
}

func TestMemoryFailAppendAfter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailAppendAfter = 1

	require.NoError(t, m.Append(ctx, timelog.NewEnd(1)))
	assert.ErrorIs(t, m.Append(ctx, timelog.NewEnd(2)), timelog.ErrIO)

	entries, err := m.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
