package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestTab_Abbreviation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"work": "W",
		"Home": "H",
		"élan": "É",
		"":     "",
	}
	for name, want := range cases {
		got := Tab{Name: name}.Abbreviation()
		if got != want {
			t.Fatalf("Abbreviation(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestTab_ColorWrapsAnyIndex(t *testing.T) {
	t.Parallel()

	for _, idx := range []int{0, 7, 8, 15, 1000, -1, -9} {
		c := Tab{ColorIndex: idx}.Color()
		want := Palette[((idx%PaletteSize)+PaletteSize)%PaletteSize]
		if c != want {
			t.Fatalf("ColorIndex %d: got %s, want %s", idx, c.Name, want.Name)
		}
	}
	if got := (Tab{ColorIndex: 9}).Color().Name; got != "Sepia" {
		t.Fatalf("ColorIndex 9: got %s, want Sepia", got)
	}
}

func TestTruncateName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":           "",
		"Notes":      "Notes",
		"VeryLong":   "VeryL",
		"Привет мир": "Приве",
		"ab":         "ab",
	}
	for in, want := range cases {
		if got := TruncateName(in); got != want {
			t.Fatalf("TruncateName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTab_UnmarshalMissingTypeDefaultsToNote(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	raw := `{"id":"` + id.String() + `","name":"Old","colorIndex":3}`
	var tab Tab
	if err := json.Unmarshal([]byte(raw), &tab); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tab.Type != TabTypeNote {
		t.Fatalf("expected note; got %q", tab.Type)
	}
	if tab.ID != id || tab.Name != "Old" || tab.ColorIndex != 3 {
		t.Fatalf("unexpected tab: %#v", tab)
	}
	if tab.Rows == nil || len(tab.Rows) != 0 {
		t.Fatalf("expected empty rows; got %#v", tab.Rows)
	}
}

func TestTab_UnmarshalKeepsUnknownType(t *testing.T) {
	t.Parallel()

	raw := `{"id":"` + uuid.NewString() + `","name":"X","colorIndex":0,"type":"calendar"}`
	var tab Tab
	if err := json.Unmarshal([]byte(raw), &tab); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tab.Type != "calendar" || tab.Type.Known() {
		t.Fatalf("expected unknown type calendar; got %q known=%v", tab.Type, tab.Type.Known())
	}
	if !TabTypeTask.Known() || !TabTypeNote.Known() {
		t.Fatalf("note and task must be known")
	}
}

func TestTab_ExpandedRow(t *testing.T) {
	t.Parallel()

	a := TextRow{ID: uuid.New(), Content: "a"}
	b := TextRow{ID: uuid.New(), Content: "b", IsExpanded: true}
	tab := Tab{Rows: []TextRow{a, b}}

	got, ok := tab.ExpandedRow()
	if !ok || got.ID != b.ID {
		t.Fatalf("expected row b expanded; got %#v ok=%v", got, ok)
	}
	if _, ok := (Tab{Rows: []TextRow{a}}).ExpandedRow(); ok {
		t.Fatalf("expected no expanded row")
	}

	c := tab.Clone()
	c.Rows[0].Content = "changed"
	if tab.Rows[0].Content != "a" {
		t.Fatalf("clone shares row storage")
	}
}

func TestTab_ColorName(t *testing.T) {
	t.Parallel()

	if got := (Tab{ColorIndex: 3}).ColorName(); got != "Tobacco" {
		t.Fatalf("expected Tobacco; got %q", got)
	}
	if got := (Tab{ColorIndex: -1}).ColorName(); got != "Burgundy" {
		t.Fatalf("expected Burgundy; got %q", got)
	}
}
