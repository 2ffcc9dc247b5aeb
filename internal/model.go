package internal

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"timetracker/internal/summary"
	"timetracker/internal/timelog"
	"timetracker/internal/tracker"
)

type MsgTick struct{}

// Model is a read-only dashboard over the work log: the active task and the
// totals of tasks completed today. It re-reads the log on every tick.
type Model struct {
	Active *timelog.Entry
	Today  summary.Stats
	Now    time.Time
	Err    error
	Width  int

	ctx     context.Context
	tracker *tracker.Tracker
}

func NewModel(ctx context.Context, t *tracker.Tracker) (*Model, error) {
	m := &Model{ctx: ctx, tracker: t}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

// Refresh reloads the log.
func (m *Model) Refresh() error {
	m.Now = m.tracker.Now()

	last, err := m.tracker.Status(m.ctx)
	switch {
	case errors.Is(err, timelog.ErrNotFound):
		m.Active = nil
	case err != nil:
		return err
	case last.Type == timelog.Start:
		m.Active = &last
	default:
		m.Active = nil
	}

	m.Today = nil
	s, err := m.tracker.Summary(m.ctx)
	if errors.Is(err, summary.ErrEmpty) {
		return nil
	}
	if err != nil {
		return err
	}

	today := m.Now.In(m.tracker.Location()).Format(time.DateOnly)
	for i, g := range s.Groups {
		if g.Day() == today {
			m.Today = s.PerGroup[i]
		}
	}
	return nil
}

// Elapsed is how long the active task has been running.
func (m *Model) Elapsed() time.Duration {
	if m.Active == nil {
		return 0
	}
	return m.Now.Sub(time.Unix(m.Active.STime, 0))
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.Err = m.Refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.Err != nil {
		return m.errorView()
	}
	return m.mainView()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		m.Err = m.Refresh()
	}
	return m, nil
}
