package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"timetracker/internal"
	"timetracker/internal/tracker"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show a live view of the active task and today's totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd, func(t *tracker.Tracker) error {
				m, err := internal.NewModel(cmd.Context(), t)
				if err != nil {
					return err
				}

				p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout()))

				ticker := time.NewTicker(time.Second)
				defer ticker.Stop()
				done := make(chan struct{})
				defer close(done)

				go func() {
					for {
						select {
						case <-ticker.C:
							p.Send(internal.MsgTick{})
						case <-done:
							return
						}
					}
				}()

				_, err = p.Run()
				return err
			})
		},
	}
}
