package cli

import (
	"github.com/spf13/cobra"

	"microtask/internal/render"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the tab strip and the active tab's rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, app)
		},
	}
}

func runShow(cmd *cobra.Command, app *App) error {
	st, done, err := openState(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()

	tabs := st.Tabs()
	v := showView{ActiveTabID: st.ActiveTabID(), Tabs: summarizeTabs(tabs, activeID(st))}
	if t, ok := st.ActiveTab(); ok {
		v.ActiveTab = &t
	}
	return writeOut(cmd, app, v, func(r *render.Renderer) string {
		return r.Tab(tabs, activeID(st))
	})
}
