package cli

import (
	"github.com/google/uuid"

	"microtask/internal/model"
	"microtask/internal/state"
)

// activeID is the tab the views treat as active: the stored active tab, or the
// first tab when none is stored.
func activeID(st *state.AppState) uuid.UUID {
	if t, ok := st.ActiveTab(); ok {
		return t.ID
	}
	return uuid.Nil
}

type tabSummary struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Type         model.TabType `json:"type"`
	ColorIndex   int           `json:"colorIndex"`
	Color        string        `json:"color"`
	Abbreviation string        `json:"abbreviation"`
	Active       bool          `json:"active"`
	RowCount     int           `json:"rowCount"`
}

func summarizeTab(t model.Tab, activeID uuid.UUID) tabSummary {
	return tabSummary{
		ID:           t.ID,
		Name:         t.Name,
		Type:         t.Type,
		ColorIndex:   t.ColorIndex,
		Color:        t.ColorName(),
		Abbreviation: t.Abbreviation(),
		Active:       t.ID == activeID,
		RowCount:     len(t.Rows),
	}
}

func summarizeTabs(tabs []model.Tab, activeID uuid.UUID) []tabSummary {
	out := make([]tabSummary, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, summarizeTab(t, activeID))
	}
	return out
}

type showView struct {
	ActiveTabID uuid.UUID    `json:"activeTabId"`
	Tabs        []tabSummary `json:"tabs"`
	ActiveTab   *model.Tab   `json:"activeTab,omitempty"`
}
