package cli

import (
	"github.com/spf13/cobra"

	"microtask/internal/render"
	"microtask/internal/tui"
)

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive tab view",
		Long: "Open the interactive tab view.\n\n" +
			"Row expansion is kept in memory while the view is open and is saved\n" +
			"together with the next change that saves (or ctrl+s).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if err := tui.Run(st, render.Options{Width: app.Width, NoColor: app.NoColor}); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
