package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timetracker/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// formatClock renders a duration as H:MM:SS, or MM:SS under an hour.
func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

const minBoxWidth = 36

// boxWidth splits the terminal width between the two boxes, never going
// below minBoxWidth.
func (m *Model) boxWidth() int {
	if w := (m.Width - 6) / 2; w > minBoxWidth {
		return w
	}
	return minBoxWidth
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(2*m.boxWidth() + 4).Render("Time Tracker"))
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.activeView(),
		"  ",
		m.todayView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Refresh: r | Quit: q"))

	return sb.String()
}

func (m *Model) activeView() string {
	if m.Active == nil {
		return boxStyle.Width(m.boxWidth()).Height(8).Render(inactiveStyle.Render(report.NotTrackingMessage))
	}

	started := time.Unix(m.Active.STime, 0).In(m.tracker.Location())

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Tracking"))
	sb.WriteString("\n\n")
	sb.WriteString(m.Active.TaskName())
	sb.WriteString("\n")
	sb.WriteString(timerRunningStyle.Render(formatClock(m.Elapsed())))
	sb.WriteString("\n\n")
	sb.WriteString(inactiveStyle.Render("since " + started.Format("Jan 02 15:04")))
	if note := m.Active.NoteText(); note != "" {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("[" + note + "]"))
	}

	return boxStyle.Width(m.boxWidth()).Height(8).Render(sb.String())
}

func (m *Model) todayView() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Today"))
	sb.WriteString("\n\n")

	if len(m.Today) == 0 {
		sb.WriteString(inactiveStyle.Render("Nothing completed yet."))
	}
	for _, name := range m.Today.Names() {
		fmt.Fprintf(&sb, "%s  %s\n", name, report.FormatDuration(m.Today[name]))
	}

	return boxStyle.Width(m.boxWidth()).Height(8).Render(sb.String())
}

func (m *Model) errorView() string {
	return errorStyle.Render("Error: "+m.Err.Error()) + "\n\n" + helpStyle.Render("Refresh: r | Quit: q")
}
