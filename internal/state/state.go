// Package state owns the tabs and rows shown by the UI and keeps them in sync
// with a key-value store.
//
// An AppState is built explicitly with New and handed to whatever renders it;
// there is no package-level instance. It is not safe for concurrent use: every
// call is expected to come from the same UI event loop.
package state

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"microtask/internal/logging"
	"microtask/internal/model"
	"microtask/internal/store"
)

const DefaultStorageKey = "microtask.appstate"

type AppState struct {
	kv         store.KV
	storageKey string
	log        *log.Logger
	now        func() time.Time

	tabs         []model.Tab
	activeTabID  uuid.UUID
	editingTabID uuid.UUID

	subs      []subscriber
	nextSubID int
}

type Option func(*AppState)

func WithLogger(l *log.Logger) Option {
	return func(s *AppState) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the timestamp source for new rows.
func WithClock(now func() time.Time) Option {
	return func(s *AppState) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty state bound to kv under storageKey. Call Initialize before use.
// A nil kv keeps everything in memory.
func New(kv store.KV, storageKey string, opts ...Option) *AppState {
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	s := &AppState{
		kv:         kv,
		storageKey: storageKey,
		log:        logging.L,
		now:        func() time.Time { return time.Now().UTC() },
		tabs:       []model.Tab{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AppState) StorageKey() string { return s.storageKey }

// Initialize loads persisted tabs. When nothing usable is stored it seeds the
// default "Notes" and "Tasks" tabs, activates "Notes", and saves.
func (s *AppState) Initialize() {
	s.load()
	if len(s.tabs) == 0 {
		s.tabs = []model.Tab{}
		notes := s.appendTab("Notes", model.TabTypeNote)
		s.appendTab("Tasks", model.TabTypeTask)
		s.activeTabID = notes
		s.persist()
	}
	s.notify(Change{Kind: ChangeLoaded, TabID: s.activeTabID})
}

func (s *AppState) load() {
	b, ok, err := s.kv.Get(s.storageKey)
	if err != nil {
		s.log.Error("failed to read state", "key", s.storageKey, "err", err)
		return
	}
	if !ok {
		return
	}
	tabs, err := DecodeTabs(b)
	if err != nil {
		s.log.Error("failed to decode state", "key", s.storageKey, "err", err)
		return
	}
	for i := range tabs {
		if !tabs[i].Type.Known() {
			s.log.Warn("unknown tab type, treating as note", "tab", tabs[i].ID, "type", string(tabs[i].Type))
			tabs[i].Type = model.TabTypeNote
		}
	}
	s.tabs = tabs

	active := uuid.Nil
	raw, ok, err := s.kv.Get(activeTabKey(s.storageKey))
	if err != nil {
		s.log.Warn("failed to read active tab", "key", activeTabKey(s.storageKey), "err", err)
	} else if ok {
		active = decodeActiveTabID(raw)
	}
	if s.tabIndex(active) < 0 {
		active = s.firstTabID()
	}
	s.activeTabID = active
}

// Save writes the full tab list and the active tab id.
func (s *AppState) Save() error {
	b, err := EncodeTabs(s.tabs)
	if err != nil {
		return fmt.Errorf("encode tabs: %w", err)
	}
	if err := s.kv.Set(s.storageKey, b); err != nil {
		return fmt.Errorf("write %s: %w", s.storageKey, err)
	}
	key := activeTabKey(s.storageKey)
	if err := s.kv.Set(key, encodeActiveTabID(s.activeTabID)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// persist saves and logs on failure. In-memory state stays authoritative either way.
func (s *AppState) persist() {
	if err := s.Save(); err != nil {
		s.log.Error("failed to save state", "key", s.storageKey, "err", err)
	}
}

// Tabs returns a copy of the tabs in display order.
func (s *AppState) Tabs() []model.Tab {
	out := make([]model.Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t.Clone()
	}
	return out
}

func (s *AppState) Tab(id uuid.UUID) (model.Tab, bool) {
	i := s.tabIndex(id)
	if i < 0 {
		return model.Tab{}, false
	}
	return s.tabs[i].Clone(), true
}

// ActiveTabID is uuid.Nil when no tab is active.
func (s *AppState) ActiveTabID() uuid.UUID { return s.activeTabID }

// EditingTabID is uuid.Nil when no tab name is being edited.
func (s *AppState) EditingTabID() uuid.UUID { return s.editingTabID }

// ActiveTab returns the active tab, or the first tab when none is marked active.
func (s *AppState) ActiveTab() (model.Tab, bool) {
	if s.activeTabID == uuid.Nil {
		if len(s.tabs) == 0 {
			return model.Tab{}, false
		}
		return s.tabs[0].Clone(), true
	}
	return s.Tab(s.activeTabID)
}

// CreateTab appends a tab and makes it active. An empty name becomes "Tab N";
// an empty type becomes note. Colors go round-robin on the current tab count.
func (s *AppState) CreateTab(name string, typ model.TabType) uuid.UUID {
	if typ == "" {
		typ = model.TabTypeNote
	}
	if name == "" {
		name = fmt.Sprintf("Tab %d", len(s.tabs)+1)
	}
	id := s.appendTab(name, typ)
	s.activeTabID = id
	s.persist()
	s.notify(Change{Kind: ChangeTabCreated, TabID: id})
	return id
}

func (s *AppState) appendTab(name string, typ model.TabType) uuid.UUID {
	t := model.Tab{
		ID:         uuid.New(),
		Name:       name,
		ColorIndex: len(s.tabs) % model.PaletteSize,
		Type:       typ,
		Rows:       []model.TextRow{},
	}
	s.tabs = append(s.tabs, t)
	return t.ID
}

// UpdateTabName renames a tab, silently cutting the name to model.MaxTabNameLen characters.
func (s *AppState) UpdateTabName(tabID uuid.UUID, name string) {
	i := s.tabIndex(tabID)
	if i < 0 {
		return
	}
	s.tabs[i].Name = model.TruncateName(name)
	s.persist()
	s.notify(Change{Kind: ChangeTabRenamed, TabID: tabID})
}

// DeleteTab removes a tab. If it was active, the first remaining tab becomes active.
func (s *AppState) DeleteTab(tabID uuid.UUID) {
	i := s.tabIndex(tabID)
	if i < 0 {
		return
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	if s.activeTabID == tabID {
		s.activeTabID = s.firstTabID()
	}
	if s.editingTabID == tabID {
		s.editingTabID = uuid.Nil
	}
	s.persist()
	s.notify(Change{Kind: ChangeTabDeleted, TabID: tabID})
}

// SelectTab makes tabID the active tab.
func (s *AppState) SelectTab(tabID uuid.UUID) {
	if s.tabIndex(tabID) < 0 {
		return
	}
	s.activeTabID = tabID
	s.persist()
	s.notify(Change{Kind: ChangeTabSelected, TabID: tabID})
}

// BeginEditing marks tabID's name as being edited inline. Not persisted.
func (s *AppState) BeginEditing(tabID uuid.UUID) {
	if s.tabIndex(tabID) < 0 {
		return
	}
	s.editingTabID = tabID
	s.notify(Change{Kind: ChangeEditing, TabID: tabID})
}

func (s *AppState) EndEditing() {
	if s.editingTabID == uuid.Nil {
		return
	}
	prev := s.editingTabID
	s.editingTabID = uuid.Nil
	s.notify(Change{Kind: ChangeEditing, TabID: prev})
}

// AddRow appends a collapsed row and returns its id, or uuid.Nil when the tab is unknown.
// Content is stored as given; trimming and rejecting blank input is the caller's job.
func (s *AppState) AddRow(tabID uuid.UUID, content string) uuid.UUID {
	i := s.tabIndex(tabID)
	if i < 0 {
		return uuid.Nil
	}
	row := model.TextRow{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: s.now(),
	}
	s.tabs[i].Rows = append(s.tabs[i].Rows, row)
	s.persist()
	s.notify(Change{Kind: ChangeRowAdded, TabID: tabID, RowID: row.ID})
	return row.ID
}

func (s *AppState) UpdateRow(tabID, rowID uuid.UUID, content string) {
	i, j := s.rowIndex(tabID, rowID)
	if j < 0 {
		return
	}
	s.tabs[i].Rows[j].Content = content
	s.persist()
	s.notify(Change{Kind: ChangeRowUpdated, TabID: tabID, RowID: rowID})
}

// ToggleRowExpansion collapses every other row in the tab, then flips rowID.
// Expansion is view state: it is not saved here, only carried along by the next save.
func (s *AppState) ToggleRowExpansion(tabID, rowID uuid.UUID) {
	i, j := s.rowIndex(tabID, rowID)
	if j < 0 {
		return
	}
	rows := s.tabs[i].Rows
	for k := range rows {
		if k != j {
			rows[k].IsExpanded = false
		}
	}
	rows[j].IsExpanded = !rows[j].IsExpanded
	s.notify(Change{Kind: ChangeRowToggled, TabID: tabID, RowID: rowID})
}

// CollapseAllRows collapses every row in the tab. Not saved, like ToggleRowExpansion.
func (s *AppState) CollapseAllRows(tabID uuid.UUID) {
	i := s.tabIndex(tabID)
	if i < 0 {
		return
	}
	for k := range s.tabs[i].Rows {
		s.tabs[i].Rows[k].IsExpanded = false
	}
	s.notify(Change{Kind: ChangeRowsCollapsed, TabID: tabID})
}

func (s *AppState) DeleteRow(tabID, rowID uuid.UUID) {
	i, j := s.rowIndex(tabID, rowID)
	if j < 0 {
		return
	}
	s.tabs[i].Rows = append(s.tabs[i].Rows[:j], s.tabs[i].Rows[j+1:]...)
	s.persist()
	s.notify(Change{Kind: ChangeRowDeleted, TabID: tabID, RowID: rowID})
}

func (s *AppState) tabIndex(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range s.tabs {
		if s.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// rowIndex returns (tab index, row index); the row index is -1 if either lookup fails.
func (s *AppState) rowIndex(tabID, rowID uuid.UUID) (int, int) {
	i := s.tabIndex(tabID)
	if i < 0 {
		return -1, -1
	}
	for j := range s.tabs[i].Rows {
		if s.tabs[i].Rows[j].ID == rowID {
			return i, j
		}
	}
	return i, -1
}

func (s *AppState) firstTabID() uuid.UUID {
	if len(s.tabs) == 0 {
		return uuid.Nil
	}
	return s.tabs[0].ID
}
