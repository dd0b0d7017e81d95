package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTabNameLen is the longest tab name (in characters) a rename can leave behind.
const MaxTabNameLen = 5

type TabType string

const (
	TabTypeNote TabType = "note"
	TabTypeTask TabType = "task"
)

// ParseTabType accepts "note" or "task" (case-insensitive). Empty means note.
func ParseTabType(s string) (TabType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TabTypeNote):
		return TabTypeNote, nil
	case string(TabTypeTask):
		return TabTypeTask, nil
	default:
		return "", fmt.Errorf("invalid tab type: %q (expected note|task)", s)
	}
}

// Known reports whether t is one of the tab types this build understands.
func (t TabType) Known() bool {
	return t == TabTypeNote || t == TabTypeTask
}

// UnmarshalJSON defaults records written before tabs had a type to note.
// Unrecognized values are kept as-is so the caller can decide what to do with them.
func (t *TabType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTabType(s)
	if err != nil {
		*t = TabType(s)
		return nil
	}
	*t = v
	return nil
}

type TextRow struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	IsExpanded bool      `json:"isExpanded"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Tab struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ColorIndex int       `json:"colorIndex"`
	Type       TabType   `json:"type"`
	Rows       []TextRow `json:"rows"`
}

// tabRecord mirrors Tab for decoding so a missing "type" key still lands on note.
type tabRecord Tab

func (t *Tab) UnmarshalJSON(b []byte) error {
	rec := tabRecord{Type: TabTypeNote}
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	if rec.Rows == nil {
		rec.Rows = []TextRow{}
	}
	*t = Tab(rec)
	return nil
}

// Color returns the palette color for the tab. Any ColorIndex is valid.
func (t Tab) Color() Color {
	return PaletteAt(t.ColorIndex)
}

// ColorName is the palette name of the tab's color, e.g. "Ink".
func (t Tab) ColorName() string {
	return t.Color().Name
}

// Abbreviation is the upper-cased first character of the name, used for inactive tab chips.
func (t Tab) Abbreviation() string {
	r, size := utf8.DecodeRuneInString(t.Name)
	if size == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}

func (t Tab) Row(id uuid.UUID) (TextRow, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return TextRow{}, false
}

// ExpandedRow returns the row currently shown in its multi-line form, if any.
func (t Tab) ExpandedRow() (TextRow, bool) {
	for _, r := range t.Rows {
		if r.IsExpanded {
			return r, true
		}
	}
	return TextRow{}, false
}

// Clone returns a copy that shares no row storage with t.
func (t Tab) Clone() Tab {
	out := t
	out.Rows = make([]TextRow, len(t.Rows))
	copy(out.Rows, t.Rows)
	return out
}

// TruncateName shortens name to MaxTabNameLen characters.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxTabNameLen {
		return name
	}
	n := 0
	for i := range name {
		if n == MaxTabNameLen {
			return name[:i]
		}
		n++
	}
	return name
}
