package state

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"microtask/internal/model"
)

// activeTabKeySuffix names the second key kept next to the tab list.
const activeTabKeySuffix = ".activeTab"

func activeTabKey(storageKey string) string {
	return storageKey + activeTabKeySuffix
}

// EncodeTabs serializes tabs as a JSON array of tab records.
func EncodeTabs(tabs []model.Tab) ([]byte, error) {
	if tabs == nil {
		tabs = []model.Tab{}
	}
	return json.Marshal(tabs)
}

// DecodeTabs parses a JSON array of tab records. Records without a type decode as notes.
func DecodeTabs(b []byte) ([]model.Tab, error) {
	var tabs []model.Tab
	if err := json.Unmarshal(b, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

func encodeActiveTabID(id uuid.UUID) []byte {
	if id == uuid.Nil {
		return []byte{}
	}
	return []byte(id.String())
}

// decodeActiveTabID returns uuid.Nil for a missing or unparsable value.
func decodeActiveTabID(b []byte) uuid.UUID {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
