package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jordanlanch/landing/pkg/tui"
	"github.com/jordanlanch/landing/pkg/widgets"
	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Preview the landing page widgets in the terminal",
		Long: `Runs the workflow, notification and insights widgets with the configured
timings. Terminal focus stands in for browser tab visibility.

Key bindings:
  Tab / Shift+Tab  Select a widget
  v                Scroll the selected widget into or out of view
  a                Toggle every widget
  q / Ctrl+C       Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := widgets.NewRegistry(widgets.ConfigFrom(a.cfg))
			if err != nil {
				return err
			}
			defer registry.Close()

			p := tea.NewProgram(tui.New(registry), tea.WithAltScreen(), tea.WithReportFocus())
			_, err = p.Run()
			return err
		},
	}
}
