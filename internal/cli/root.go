package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"microtask/internal/config"
	"microtask/internal/format"
	"microtask/internal/logging"
	"microtask/internal/render"
	"microtask/internal/state"
	"microtask/internal/store"
)

type App struct {
	Dir        string
	Backend    string
	StorageKey string
	Format     string
	LogLevel   string
	PrettyJSON bool
	NoColor    bool
	Width      int
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "microtask",
		Short:        "Tabs of quick notes and tasks",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Show the active tab
  microtask

  # Capture a task into the active tab
  microtask rows add Buy milk

  # Make a new tab and switch to it
  microtask tabs create --name Work --type task
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.applyConfig(cfg)
		if err := checkFormat(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		if err := logging.SetLevel(app.LogLevel); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data dir (default from config: <config dir>/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (sqlite|file|memory)")
	cmd.PersistentFlags().StringVar(&app.StorageKey, "key", "", "Storage key for this set of tabs")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "text", "Output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colors in text output")
	cmd.PersistentFlags().IntVar(&app.Width, "width", 0, "Column width for text output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTabsCmd(app))
	cmd.AddCommand(newRowsCmd(app))
	cmd.AddCommand(newUICmd(app))

	return cmd
}

// applyConfig fills every setting the flags left unset.
func (app *App) applyConfig(cfg config.Config) {
	if app.Dir == "" {
		app.Dir = cfg.Dir
	}
	if app.Backend == "" {
		app.Backend = cfg.Backend
	}
	if app.StorageKey == "" {
		app.StorageKey = cfg.StorageKey
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
	if app.Width <= 0 {
		app.Width = cfg.Width
	}
}

// checkFormat rejects an unknown --format before any command touches the store.
func checkFormat(f string) error {
	if f == "text" || format.Supported(f) {
		return nil
	}
	return fmt.Errorf("unknown format: %s (expected text|json|yaml)", f)
}

// openState opens the configured store and loads (or seeds) the tabs.
// The returned func closes the store.
func openState(cmd *cobra.Command, app *App) (*state.AppState, func(), error) {
	backend, err := store.ParseBackend(app.Backend)
	if err != nil {
		return nil, nil, err
	}
	kv, closeFn, err := store.Store{Dir: app.Dir}.Open(cmd.Context(), backend)
	if err != nil {
		return nil, nil, err
	}
	st := state.New(kv, app.StorageKey, state.WithLogger(logging.L))
	st.Initialize()
	logging.Debugf("opened %s store in %s (key %s, %d tabs)", backend, app.Dir, st.StorageKey(), len(st.Tabs()))
	return st, func() {
		if err := closeFn(); err != nil {
			logging.Errorf("close store: %v", err)
		}
	}, nil
}

func (app *App) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), render.Options{Width: app.Width, NoColor: app.NoColor})
}

// writeOut prints data as JSON/YAML ({"data": v}) or, for text, whatever text renders.
func writeOut(cmd *cobra.Command, app *App, v any, text func(r *render.Renderer) string) error {
	if app.Format == "text" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text(app.renderer(cmd)))
		return err
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
