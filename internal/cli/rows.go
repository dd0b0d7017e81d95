package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"microtask/internal/logging"
	"microtask/internal/model"
	"microtask/internal/render"
	"microtask/internal/state"
)

func newRowsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Row commands (default tab: the active one)",
	}
	cmd.AddCommand(newRowsListCmd(app))
	cmd.AddCommand(newRowsAddCmd(app))
	cmd.AddCommand(newRowsEditCmd(app))
	cmd.AddCommand(newRowsDeleteCmd(app))
	cmd.AddCommand(newRowsToggleCmd(app))
	cmd.AddCommand(newRowsCollapseCmd(app))
	return cmd
}

// rowText joins words the way the input field submits them: trimmed, never empty.
func rowText(args []string) (string, error) {
	s := strings.TrimSpace(strings.Join(args, " "))
	if s == "" {
		return "", errors.New("row text must not be empty")
	}
	return s, nil
}

// writeTab prints the (re-read) tab: JSON/YAML get the tab record, text gets its rows.
func writeTab(cmd *cobra.Command, app *App, st *state.AppState, t model.Tab) error {
	t, _ = st.Tab(t.ID)
	return writeOut(cmd, app, t, func(r *render.Renderer) string {
		return r.Rows(t)
	})
}

func newRowsListCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a tab's rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, tabRef)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeTab(cmd, app, st, t)
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

func newRowsAddCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Append a row",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := rowText(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, tabRef)
			if err != nil {
				return writeErr(cmd, err)
			}
			rowID := st.AddRow(t.ID, text)
			if app.Format == "text" {
				return writeTab(cmd, app, st, t)
			}
			t, _ = st.Tab(t.ID)
			row, _ := t.Row(rowID)
			return writeOut(cmd, app, row, nil)
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

func newRowsEditCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "edit <row> <text...>",
		Short: "Replace a row's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := rowText(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withRow(cmd, app, tabRef, args[0], func(st *state.AppState, t model.Tab, row model.TextRow) {
				st.UpdateRow(t.ID, row.ID, text)
			})
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

func newRowsDeleteCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "delete <row>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRow(cmd, app, tabRef, args[0], func(st *state.AppState, t model.Tab, row model.TextRow) {
				st.DeleteRow(t.ID, row.ID)
			})
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

func newRowsToggleCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "toggle <row>",
		Short: "Expand a row (collapsing the others) or collapse it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var saveErr error
			err := withRow(cmd, app, tabRef, args[0], func(st *state.AppState, t model.Tab, row model.TextRow) {
				st.ToggleRowExpansion(t.ID, row.ID)
				// Expansion isn't saved by the toggle itself; a CLI run ends here, so flush it.
				saveErr = st.Save()
				if saveErr == nil {
					logging.Infof("saved expansion state of tab %s", t.Name)
				}
			})
			if err != nil {
				return err
			}
			if saveErr != nil {
				return writeErr(cmd, saveErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

func newRowsCollapseCmd(app *App) *cobra.Command {
	var tabRef string

	cmd := &cobra.Command{
		Use:   "collapse",
		Short: "Collapse every row in a tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := openState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, err := resolveTab(st, tabRef)
			if err != nil {
				return writeErr(cmd, err)
			}
			st.CollapseAllRows(t.ID)
			if err := st.Save(); err != nil {
				return writeErr(cmd, err)
			}
			logging.Infof("saved expansion state of tab %s", t.Name)
			return writeTab(cmd, app, st, t)
		},
	}

	cmd.Flags().StringVar(&tabRef, "tab", "", "Tab id, id prefix or name")
	return cmd
}

// withRow resolves tabRef/rowRef, applies fn, and prints the tab afterwards.
func withRow(cmd *cobra.Command, app *App, tabRef, rowRef string, fn func(st *state.AppState, t model.Tab, row model.TextRow)) error {
	st, done, err := openState(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()

	t, err := resolveTab(st, tabRef)
	if err != nil {
		return writeErr(cmd, err)
	}
	row, err := resolveRow(t, rowRef)
	if err != nil {
		return writeErr(cmd, err)
	}
	fn(st, t, row)
	return writeTab(cmd, app, st, t)
}
