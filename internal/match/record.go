package match

import (
	"encoding/json"

	"mafqood/internal/items"
)

// MatchRecord is one backend match record. The nested item arrives under
// "item" on some endpoints and "matched_item" on others.
type MatchRecord struct {
	Similarity  float64           `json:"similarity"`
	Item        *items.ItemRecord `json:"item"`
	MatchedItem *items.ItemRecord `json:"matched_item"`
	CreatedAt   string            `json:"created_at"`
}

// nested resolves the matched item under either accepted key name.
func (r MatchRecord) nested() *items.ItemRecord {
	if r.Item != nil {
		return r.Item
	}
	return r.MatchedItem
}

// HistoryEntry is one element of a history collection: either an
// item-with-matches wrapper (current shape) or a bare item record
// (legacy shape).
type HistoryEntry struct {
	Item    *items.ItemRecord
	Matches []MatchRecord
}

// UnmarshalJSON detects the entry shape. Entries exposing a nested
// "item" field are item-with-matches; anything else is treated as a bare
// item with an empty match list.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Item    *items.ItemRecord `json:"item"`
		Matches []MatchRecord     `json:"matches"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Item != nil {
		e.Item = wrapper.Item
		e.Matches = wrapper.Matches
		return nil
	}

	var rec items.ItemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	e.Item = &rec
	e.Matches = nil
	return nil
}

// HistoryPayload is the backend history response. Versioned endpoints
// use lost_items/found_items; the legacy endpoint used lost/found.
type HistoryPayload struct {
	LostItems  []HistoryEntry `json:"lost_items"`
	FoundItems []HistoryEntry `json:"found_items"`
	Lost       []HistoryEntry `json:"lost"`
	Found      []HistoryEntry `json:"found"`
}

func (p HistoryPayload) lostEntries() []HistoryEntry {
	if p.LostItems != nil {
		return p.LostItems
	}
	return p.Lost
}

func (p HistoryPayload) foundEntries() []HistoryEntry {
	if p.FoundItems != nil {
		return p.FoundItems
	}
	return p.Found
}
