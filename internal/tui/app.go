package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"microtask/internal/logging"
	"microtask/internal/model"
	"microtask/internal/render"
	"microtask/internal/state"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAddRow
	inputEditRow
	inputRenameTab
)

const helpLine = "←/→ tabs  ↑/↓ rows  enter expand  esc collapse  a add  e edit  d delete  r rename  n/t new tab  D delete tab  q quit"

// snapshot is what View draws. The state subscription refreshes it, and every
// copy of appModel shares it.
type snapshot struct {
	tabs     []model.Tab
	activeID uuid.UUID
	editing  uuid.UUID
}

func (s *snapshot) refresh(st *state.AppState) {
	s.tabs = st.Tabs()
	s.activeID = uuid.Nil
	if t, ok := st.ActiveTab(); ok {
		s.activeID = t.ID
	}
	s.editing = st.EditingTabID()
}

func (s *snapshot) activeTab() (model.Tab, int, bool) {
	for i, t := range s.tabs {
		if t.ID == s.activeID {
			return t, i, true
		}
	}
	return model.Tab{}, -1, false
}

func (s *snapshot) tab(id uuid.UUID) (model.Tab, bool) {
	for _, t := range s.tabs {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tab{}, false
}

type appModel struct {
	st     *state.AppState
	snap   *snapshot
	cancel func()

	out  io.Writer
	opts render.Options
	r    *render.Renderer

	mode      inputMode
	input     textinput.Model
	editRowID uuid.UUID
	cursor    int
	status    string
}

func newAppModel(st *state.AppState, out io.Writer, opts render.Options) appModel {
	snap := &snapshot{}
	snap.refresh(st)

	m := appModel{
		st:   st,
		snap: snap,
		out:  out,
		opts: opts,
		r:    render.New(out, opts),
	}
	m.cancel = st.Subscribe(func(state.Change) {
		snap.refresh(st)
	})

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.CharLimit = 500
	m.input.Width = 40
	return m
}

func (m appModel) close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		opts := m.opts
		opts.Width = msg.Width - 2
		m.r = render.New(m.out, opts)
		m.input.Width = max(10, msg.Width-16)
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	tab, _, hasTab := m.snap.activeTab()

	switch msg.String() {
	case "q", "ctrl+c":
		m.close()
		return m, tea.Quit
	case "right", "l", "tab":
		m.selectOffset(1)
	case "left", "h", "shift+tab":
		m.selectOffset(-1)
	case "down", "j":
		m.cursor++
	case "up", "k":
		m.cursor--
	case "enter", " ":
		if row, ok := m.currentRow(); ok {
			m.st.ToggleRowExpansion(tab.ID, row.ID)
		}
	case "esc":
		if hasTab {
			m.st.CollapseAllRows(tab.ID)
		}
	case "a":
		if hasTab {
			return m.startInput(inputAddRow, "", "New row")
		}
	case "e":
		if row, ok := m.currentRow(); ok {
			m.editRowID = row.ID
			return m.startInput(inputEditRow, row.Content, "")
		}
	case "r":
		if hasTab {
			m.st.BeginEditing(tab.ID)
			return m.startInput(inputRenameTab, tab.Name, "Name")
		}
	case "n":
		m.st.CreateTab("", model.TabTypeNote)
		m.cursor = 0
	case "t":
		m.st.CreateTab("", model.TabTypeTask)
		m.cursor = 0
	case "d":
		if row, ok := m.currentRow(); ok {
			m.st.DeleteRow(tab.ID, row.ID)
		}
	case "D":
		if hasTab {
			m.st.DeleteTab(tab.ID)
			m.cursor = 0
		}
	case "ctrl+s":
		if err := m.st.Save(); err != nil {
			logging.Warnf("save: %v", err)
			m.status = "save failed"
		} else {
			m.status = "saved"
		}
	}
	m.clampCursor()
	return m, nil
}

func (m appModel) startInput(mode inputMode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.CharLimit = 500
	if mode == inputRenameTab {
		m.input.CharLimit = model.MaxTabNameLen
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.finishInput()
		return m, nil
	case "enter":
		m.submit(strings.TrimSpace(m.input.Value()))
		m.finishInput()
		m.clampCursor()
		return m, nil
	case "ctrl+c":
		m.finishInput()
		m.close()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the input line. Blank input changes nothing.
func (m *appModel) submit(v string) {
	if v == "" {
		return
	}
	switch m.mode {
	case inputAddRow:
		tab, _, ok := m.snap.activeTab()
		if !ok {
			return
		}
		m.st.AddRow(tab.ID, v)
		if tab, _, ok := m.snap.activeTab(); ok {
			m.cursor = len(tab.Rows) - 1
		}
	case inputEditRow:
		if tab, _, ok := m.snap.activeTab(); ok {
			m.st.UpdateRow(tab.ID, m.editRowID, v)
		}
	case inputRenameTab:
		m.st.UpdateTabName(m.snap.editing, v)
	}
}

func (m *appModel) finishInput() {
	if m.mode == inputRenameTab {
		m.st.EndEditing()
	}
	m.mode = inputNone
	m.editRowID = uuid.Nil
	m.input.Blur()
	m.input.Reset()
}

func (m *appModel) selectOffset(d int) {
	n := len(m.snap.tabs)
	if n == 0 {
		return
	}
	_, i, ok := m.snap.activeTab()
	if !ok {
		i = 0
	} else {
		i = ((i+d)%n + n) % n
	}
	m.st.SelectTab(m.snap.tabs[i].ID)
	m.cursor = 0
}

func (m appModel) currentRow() (model.TextRow, bool) {
	tab, _, ok := m.snap.activeTab()
	if !ok || m.cursor < 0 || m.cursor >= len(tab.Rows) {
		return model.TextRow{}, false
	}
	return tab.Rows[m.cursor], true
}

func (m *appModel) clampCursor() {
	tab, _, _ := m.snap.activeTab()
	if m.cursor >= len(tab.Rows) {
		m.cursor = len(tab.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.r.TabBar(m.snap.tabs, m.snap.activeID))
	b.WriteString("\n\n")
	if tab, _, ok := m.snap.activeTab(); ok {
		b.WriteString(m.r.RowsCursor(tab, m.cursor))
		b.WriteString("\n\n")
	}
	if m.mode != inputNone {
		b.WriteString(m.inputLabel())
		b.WriteString(" ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	footer := helpLine
	if m.status != "" {
		footer = m.status + "  " + footer
	}
	b.WriteString(lipgloss.NewStyle().Faint(true).Render(footer))
	return b.String()
}

func (m appModel) inputLabel() string {
	switch m.mode {
	case inputAddRow:
		return "Add:"
	case inputEditRow:
		return "Edit:"
	case inputRenameTab:
		if t, ok := m.snap.tab(m.snap.editing); ok {
			return fmt.Sprintf("Rename %s:", t.Name)
		}
		return "Rename:"
	}
	return ""
}
