package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"microtask/internal/logging"
	"microtask/internal/model"
	"microtask/internal/render"
)

func newTabsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Tab commands",
	}
	cmd.AddCommand(newTabsListCmd(app))
	cmd.AddCommand(newTabsCreateCmd(app))
	cmd.AddCommand(newTabsRenameCmd(app))
	cmd.AddCommand(newTabsDeleteCmd(app))
	cmd.AddCommand(newTabsUseCmd(app))
	return cmd
}

func newTabsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			tabs := st.Tabs()
			return writeOut(cmd, app, summarizeTabs(tabs, activeID(st)), func(r *render.Renderer) string {
				return r.TabBar(tabs, activeID(st))
			})
		},
	}
}

func newTabsCreateCmd(app *App) *cobra.Command {
	var name string
	var typ string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tab and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := model.ParseTabType(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			id := st.CreateTab(strings.TrimSpace(name), tt)
			t, _ := st.Tab(id)
			tabs := st.Tabs()
			return writeOut(cmd, app, summarizeTab(t, activeID(st)), func(r *render.Renderer) string {
				return r.TabBar(tabs, activeID(st))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", `Tab name (default "Tab N")`)
	cmd.Flags().StringVar(&typ, "type", "note", "Tab type (note|task)")
	return cmd
}

func newTabsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tab> <name>",
		Short: "Rename a tab (names are cut to 5 characters)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[1])
			if name == "" {
				return writeErr(cmd, errors.New("name must not be empty"))
			}
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st.UpdateTabName(t.ID, name)
			t, _ = st.Tab(t.ID)
			if t.Name != name {
				logging.Warnf("tab names are limited to %d characters; saved %q", model.MaxTabNameLen, t.Name)
			}
			tabs := st.Tabs()
			return writeOut(cmd, app, summarizeTab(t, activeID(st)), func(r *render.Renderer) string {
				return r.TabBar(tabs, activeID(st))
			})
		},
	}
}

func newTabsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tab>",
		Short: "Delete a tab and its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st.DeleteTab(t.ID)

			tabs := st.Tabs()
			out := map[string]any{"deleted": t.ID, "activeTabId": st.ActiveTabID()}
			return writeOut(cmd, app, out, func(r *render.Renderer) string {
				return r.TabBar(tabs, activeID(st))
			})
		},
	}
}

func newTabsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <tab>",
		Short: "Make a tab active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st.SelectTab(t.ID)

			tabs := st.Tabs()
			return writeOut(cmd, app, summarizeTab(t, activeID(st)), func(r *render.Renderer) string {
				return r.Tab(tabs, activeID(st))
			})
		},
	}
}
