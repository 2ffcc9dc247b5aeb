package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"timetracker/internal/timelog"
)

// Memory is an in-process Store. FailAppendAfter, when positive, makes every
// append past that many successful ones fail, which lets callers observe a
// partially applied command.
type Memory struct {
	mu              sync.Mutex
	entries         []timelog.Entry
	FailAppendAfter int
	appends         int
}

var errMemoryFull = errors.New("append limit reached")

func NewMemory(entries ...timelog.Entry) *Memory {
	return &Memory{entries: slices.Clone(entries)}
}

func (m *Memory) Init(ctx context.Context) error {
	return nil
}

func (m *Memory) Append(ctx context.Context, e timelog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppendAfter > 0 && m.appends >= m.FailAppendAfter {
		return ioErr("append entry", errMemoryFull)
	}
	m.appends++
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) Entries(ctx context.Context) ([]timelog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *Memory) Close() error {
	return nil
}
