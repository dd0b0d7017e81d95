package cli

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"microtask/internal/model"
	"microtask/internal/state"
)

// resolveTab accepts a full id, a case-insensitive tab name, or a unique id prefix.
// An empty ref means the active tab.
func resolveTab(st *state.AppState, ref string) (model.Tab, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		t, ok := st.ActiveTab()
		if !ok {
			return model.Tab{}, errNotFound("tab", "(active)")
		}
		return t, nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		if t, ok := st.Tab(id); ok {
			return t, nil
		}
		return model.Tab{}, errNotFound("tab", ref)
	}

	tabs := st.Tabs()
	var byName []model.Tab
	for _, t := range tabs {
		if strings.EqualFold(t.Name, ref) {
			byName = append(byName, t)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return model.Tab{}, errAmbiguous("tab", ref, len(byName))
	}

	var byPrefix []model.Tab
	lower := strings.ToLower(ref)
	for _, t := range tabs {
		if strings.HasPrefix(t.ID.String(), lower) {
			byPrefix = append(byPrefix, t)
		}
	}
	switch len(byPrefix) {
	case 1:
		return byPrefix[0], nil
	case 0:
		return model.Tab{}, errNotFound("tab", ref)
	default:
		return model.Tab{}, errAmbiguous("tab", ref, len(byPrefix))
	}
}

// resolveRow accepts a 1-based position, a full id, or a unique id prefix.
func resolveRow(t model.Tab, ref string) (model.TextRow, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(t.Rows) {
			return t.Rows[n-1], nil
		}
		return model.TextRow{}, errNotFound("row", ref)
	}
	if id, err := uuid.Parse(ref); err == nil {
		if r, ok := t.Row(id); ok {
			return r, nil
		}
		return model.TextRow{}, errNotFound("row", ref)
	}
	if ref == "" {
		return model.TextRow{}, errNotFound("row", ref)
	}

	var matches []model.TextRow
	lower := strings.ToLower(ref)
	for _, r := range t.Rows {
		if strings.HasPrefix(r.ID.String(), lower) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.TextRow{}, errNotFound("row", ref)
	default:
		return model.TextRow{}, errAmbiguous("row", ref, len(matches))
	}
}
