package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtask/internal/model"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testEnv points config at an empty dir and returns a data dir for --dir.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("MICROTASK_CONFIG_DIR", t.TempDir())
	return t.TempDir()
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func runJSON[T any](t *testing.T, dir string, args ...string) T {
	t.Helper()
	full := append([]string{"--dir", dir, "--format", "json"}, args...)
	out, errOut, err := runCLI(t, full)
	require.NoError(t, err, "stderr: %s", string(errOut))

	var env envelope[T]
	require.NoError(t, json.Unmarshal(out, &env), "stdout: %s", string(out))
	return env.Data
}

func TestShow_SeedsNotesAndTasks(t *testing.T) {
	dir := testEnv(t)

	v := runJSON[showView](t, dir, "show")
	require.Len(t, v.Tabs, 2)
	assert.Equal(t, "Notes", v.Tabs[0].Name)
	assert.Equal(t, model.TabTypeNote, v.Tabs[0].Type)
	assert.Equal(t, "Tasks", v.Tabs[1].Name)
	assert.Equal(t, model.TabTypeTask, v.Tabs[1].Type)
	assert.Equal(t, v.Tabs[0].ID, v.ActiveTabID)
	require.NotNil(t, v.ActiveTab)
	assert.Equal(t, "Notes", v.ActiveTab.Name)
	assert.Empty(t, v.ActiveTab.Rows)

	_, err := os.Stat(filepath.Join(dir, "microtask.sqlite"))
	require.NoError(t, err)

	again := runJSON[showView](t, dir, "show")
	assert.Equal(t, v.Tabs[0].ID, again.Tabs[0].ID, "seeding must happen once")
}

func TestRoot_DefaultsToShow(t *testing.T) {
	dir := testEnv(t)

	v := runJSON[showView](t, dir)
	assert.Len(t, v.Tabs, 2)
}

func TestTabs_CreateRenameUseDelete(t *testing.T) {
	dir := testEnv(t)

	created := runJSON[tabSummary](t, dir, "tabs", "create", "--type", "task")
	assert.Equal(t, "Tab 3", created.Name)
	assert.Equal(t, model.TabTypeTask, created.Type)
	assert.Equal(t, 2, created.ColorIndex)
	assert.Equal(t, "Forest", created.Color)
	assert.True(t, created.Active)

	renamed := runJSON[tabSummary](t, dir, "tabs", "rename", created.ID.String(), "Groceries")
	assert.Equal(t, "Groce", renamed.Name)

	byName := runJSON[tabSummary](t, dir, "tabs", "use", "notes")
	assert.Equal(t, "Notes", byName.Name)
	assert.True(t, byName.Active)

	list := runJSON[[]tabSummary](t, dir, "tabs", "list")
	require.Len(t, list, 3)
	assert.True(t, list[0].Active)
	assert.False(t, list[2].Active)

	del := runJSON[map[string]string](t, dir, "tabs", "delete", "notes")
	assert.Equal(t, list[0].ID.String(), del["deleted"])
	assert.Equal(t, list[1].ID.String(), del["activeTabId"])

	v := runJSON[showView](t, dir, "show")
	require.Len(t, v.Tabs, 2)
	assert.Equal(t, "Tasks", v.Tabs[0].Name)
	assert.Equal(t, v.Tabs[0].ID, v.ActiveTabID)
}

func TestTabs_CreateKeepsLongNames(t *testing.T) {
	dir := testEnv(t)

	created := runJSON[tabSummary](t, dir, "tabs", "create", "--name", "Reading list")
	assert.Equal(t, "Reading list", created.Name)
	assert.Equal(t, "R", created.Abbreviation)
}

func TestTabs_RenameRejectsEmptyName(t *testing.T) {
	dir := testEnv(t)

	_, errOut, err := runCLI(t, []string{"--dir", dir, "tabs", "rename", "notes", "  "})
	require.Error(t, err)
	assert.Contains(t, string(errOut), "name must not be empty")
}

func TestTabs_CreateRejectsUnknownType(t *testing.T) {
	dir := testEnv(t)

	_, _, err := runCLI(t, []string{"--dir", dir, "tabs", "create", "--type", "calendar"})
	require.Error(t, err)
}

func TestTabs_UnknownRefIsNotFound(t *testing.T) {
	dir := testEnv(t)

	_, errOut, err := runCLI(t, []string{"--dir", dir, "tabs", "use", "nope"})
	require.Error(t, err)
	var nf notFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Contains(t, string(errOut), "tab not found: nope")
}

func TestRows_AddEditToggleDelete(t *testing.T) {
	dir := testEnv(t)

	first := runJSON[model.TextRow](t, dir, "rows", "add", "Buy", "milk")
	assert.Equal(t, "Buy milk", first.Content)
	assert.False(t, first.IsExpanded)
	assert.False(t, first.CreatedAt.IsZero())

	second := runJSON[model.TextRow](t, dir, "rows", "add", "--tab", "tasks", "  Call mom  ")
	assert.Equal(t, "Call mom", second.Content)

	notes := runJSON[model.Tab](t, dir, "rows", "list")
	require.Len(t, notes.Rows, 1)
	assert.Equal(t, first.ID, notes.Rows[0].ID)

	edited := runJSON[model.Tab](t, dir, "rows", "edit", "1", "Buy oat milk")
	assert.Equal(t, "Buy oat milk", edited.Rows[0].Content)
	assert.Equal(t, first.CreatedAt, edited.Rows[0].CreatedAt)

	toggled := runJSON[model.Tab](t, dir, "rows", "toggle", first.ID.String())
	assert.True(t, toggled.Rows[0].IsExpanded)

	// The toggle is saved explicitly, so a fresh process sees it.
	reread := runJSON[model.Tab](t, dir, "rows", "list")
	assert.True(t, reread.Rows[0].IsExpanded)

	collapsed := runJSON[model.Tab](t, dir, "rows", "collapse")
	assert.False(t, collapsed.Rows[0].IsExpanded)
	reread = runJSON[model.Tab](t, dir, "rows", "list")
	assert.False(t, reread.Rows[0].IsExpanded)

	afterDelete := runJSON[model.Tab](t, dir, "rows", "delete", "1")
	assert.Empty(t, afterDelete.Rows)

	tasks := runJSON[model.Tab](t, dir, "rows", "list", "--tab", "tasks")
	require.Len(t, tasks.Rows, 1)
	assert.Equal(t, second.ID, tasks.Rows[0].ID)
}

func TestRows_ToggleKeepsOneExpanded(t *testing.T) {
	dir := testEnv(t)

	runJSON[model.TextRow](t, dir, "rows", "add", "one")
	runJSON[model.TextRow](t, dir, "rows", "add", "two")

	runJSON[model.Tab](t, dir, "rows", "toggle", "1")
	tab := runJSON[model.Tab](t, dir, "rows", "toggle", "2")
	require.Len(t, tab.Rows, 2)
	assert.False(t, tab.Rows[0].IsExpanded)
	assert.True(t, tab.Rows[1].IsExpanded)

	tab = runJSON[model.Tab](t, dir, "rows", "toggle", "2")
	assert.False(t, tab.Rows[1].IsExpanded)
}

func TestRows_EmptyTextIsRejected(t *testing.T) {
	dir := testEnv(t)

	_, errOut, err := runCLI(t, []string{"--dir", dir, "rows", "add", "   "})
	require.Error(t, err)
	assert.Contains(t, string(errOut), "row text must not be empty")
}

func TestRows_UnknownRowIsNotFound(t *testing.T) {
	dir := testEnv(t)

	_, errOut, err := runCLI(t, []string{"--dir", dir, "rows", "delete", "3"})
	require.Error(t, err)
	assert.Contains(t, string(errOut), "row not found: 3")
}

func TestBackend_File(t *testing.T) {
	dir := testEnv(t)

	runJSON[model.TextRow](t, dir, "--backend", "file", "rows", "add", "hello")
	tab := runJSON[model.Tab](t, dir, "--backend", "file", "rows", "list")
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "hello", tab.Rows[0].Content)

	_, err := os.Stat(filepath.Join(dir, "kv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "microtask.sqlite"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackend_MemoryForgetsBetweenRuns(t *testing.T) {
	dir := testEnv(t)

	runJSON[model.TextRow](t, dir, "--backend", "memory", "rows", "add", "hello")
	tab := runJSON[model.Tab](t, dir, "--backend", "memory", "rows", "list")
	assert.Empty(t, tab.Rows)
}

func TestStorageKey_SeparatesStates(t *testing.T) {
	dir := testEnv(t)

	runJSON[model.TextRow](t, dir, "--key", "work", "rows", "add", "standup")
	work := runJSON[model.Tab](t, dir, "--key", "work", "rows", "list")
	assert.Len(t, work.Rows, 1)

	home := runJSON[model.Tab](t, dir, "rows", "list")
	assert.Empty(t, home.Rows)
}

func TestConfigFile_SetsBackend(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("MICROTASK_CONFIG_DIR", cfgDir)
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("backend: file\n"), 0o644))
	dir := t.TempDir()

	runJSON[showView](t, dir, "show")

	_, err := os.Stat(filepath.Join(dir, "kv"))
	require.NoError(t, err)
}

func TestFormat_YAML(t *testing.T) {
	dir := testEnv(t)

	out, errOut, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "tabs", "list"})
	require.NoError(t, err, "stderr: %s", string(errOut))
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "data:\n"), s)
	assert.Contains(t, s, "name: Notes")
	assert.Contains(t, s, "type: task")
}

func TestFormat_Text(t *testing.T) {
	dir := testEnv(t)

	_, _, err := runCLI(t, []string{"--dir", dir, "rows", "add", "Buy milk\nfrom the corner shop"})
	require.NoError(t, err)

	out, errOut, err := runCLI(t, []string{"--dir", dir, "--no-color", "show"})
	require.NoError(t, err, "stderr: %s", string(errOut))
	s := string(out)
	assert.Contains(t, s, "Notes")
	assert.Contains(t, s, " 1. Buy milk …")
	assert.NotContains(t, s, "\x1b[")
}

func TestFormat_Unknown(t *testing.T) {
	dir := testEnv(t)

	_, _, err := runCLI(t, []string{"--dir", dir, "--format", "xml", "show"})
	require.Error(t, err)
}

func TestBadLogLevel(t *testing.T) {
	dir := testEnv(t)

	_, _, err := runCLI(t, []string{"--dir", dir, "--log-level", "loud", "show"})
	require.Error(t, err)
}

func TestFormat_UnknownIsRejectedBeforeAnyChange(t *testing.T) {
	dir := testEnv(t)

	_, errOut, err := runCLI(t, []string{"--dir", dir, "--format", "xml", "rows", "add", "Buy", "milk"})
	require.Error(t, err)
	assert.Contains(t, string(errOut), "unknown format: xml")

	_, _, err = runCLI(t, []string{"--dir", dir, "--format", "xml", "tabs", "create", "--name", "Work"})
	require.Error(t, err)

	list := runJSON[[]tabSummary](t, dir, "tabs", "list")
	require.Len(t, list, 2)
	for _, s := range list {
		assert.Zero(t, s.RowCount, "tab %s", s.Name)
		assert.NotEqual(t, "Work", s.Name)
	}
}
