package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"microtask/internal/render"
	"microtask/internal/state"
)

// Run shows st full-screen until the user quits. Expansion toggles stay in
// memory; they reach the store with the next change that saves.
func Run(st *state.AppState, opts render.Options) error {
	m := newAppModel(st, os.Stdout, opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
