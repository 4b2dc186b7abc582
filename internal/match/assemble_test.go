package match_test

import (
	"encoding/json"
	"testing"

	"mafqood/internal/items"
	"mafqood/internal/match"
)

func TestAssembleGroupRanksBySimilarityDescending(t *testing.T) {
	t.Parallel()

	anchor := items.ItemRecord{ID: json.RawMessage(`"mine"`), Title: "Lost wallet", ImageURL: "a.jpg"}
	records := []match.MatchRecord{
		{Similarity: 0.55, Item: itemRecord("m1", "wallet one")},
		{Similarity: 0.91, Item: itemRecord("m2", "wallet two")},
		{Similarity: 0.70, Item: itemRecord("m3", "wallet three")},
	}

	group, err := match.AssembleGroup(anchor, records, items.Options{}, nil)
	if err != nil {
		t.Fatalf("AssembleGroup: %v", err)
	}

	// Assembly keeps every match, including sub-threshold ones; ranking is
	// purely by similarity.
	if len(group.Matches) != 3 {
		t.Fatalf("expected all 3 matches kept, got %d", len(group.Matches))
	}
	got := []int{group.Matches[0].Similarity, group.Matches[1].Similarity, group.Matches[2].Similarity}
	want := []int{91, 70, 55}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestAssembleGroupAnchorsEveryMatch(t *testing.T) {
	t.Parallel()

	anchor := items.ItemRecord{ID: json.RawMessage(`"mine"`), Title: "Lost keys", ImageURL: "k.jpg"}
	records := []match.MatchRecord{
		{Similarity: 0.8, Item: itemRecord("m1", "keys")},
		{Similarity: 0.6, Item: itemRecord("m2", "key ring")},
	}

	group, err := match.AssembleGroup(anchor, records, items.Options{}, nil)
	if err != nil {
		t.Fatalf("AssembleGroup: %v", err)
	}
	for i, m := range group.Matches {
		if m.Anchor == nil {
			t.Fatalf("match %d is missing its anchor", i)
		}
		if m.Anchor.ID != "mine" {
			t.Fatalf("match %d anchored to %q, want mine", i, m.Anchor.ID)
		}
	}
}

func TestAssembleGroupRejectsMalformedAnchor(t *testing.T) {
	t.Parallel()

	anchor := items.ItemRecord{Title: "no id"}
	if _, err := match.AssembleGroup(anchor, nil, items.Options{}, nil); err == nil {
		t.Fatal("expected malformed anchor item to fail the group")
	}
}

func TestAssembleHistoryDropsMalformedItemsNotBatch(t *testing.T) {
	t.Parallel()

	payload := match.HistoryPayload{
		LostItems: []match.HistoryEntry{
			{Item: itemRecord("good", "Lost wallet")},
			{Item: &items.ItemRecord{Title: "no id or image"}},
			{Item: itemRecord("also-good", "Lost phone")},
		},
	}

	history := match.AssembleHistory(payload, items.Options{}, nil)
	if len(history.Lost) != 2 {
		t.Fatalf("expected malformed item dropped, survivors kept; got %d groups", len(history.Lost))
	}
	if history.Lost[0].Item.ID != "good" || history.Lost[1].Item.ID != "also-good" {
		t.Fatalf("expected survivor order preserved, got %q then %q", history.Lost[0].Item.ID, history.Lost[1].Item.ID)
	}
}

func TestAssembleHistorySkipsUnusableMatches(t *testing.T) {
	t.Parallel()

	payload := match.HistoryPayload{
		FoundItems: []match.HistoryEntry{
			{
				Item: itemRecord("f1", "Found watch"),
				Matches: []match.MatchRecord{
					{Similarity: 0.9, Item: itemRecord("m1", "gold watch")},
					{Similarity: 0.8}, // no nested item
					{Similarity: 0.7, Item: &items.ItemRecord{Title: "broken"}},
				},
			},
		},
	}

	history := match.AssembleHistory(payload, items.Options{}, nil)
	if len(history.Found) != 1 {
		t.Fatalf("expected 1 group, got %d", len(history.Found))
	}
	if len(history.Found[0].Matches) != 1 {
		t.Fatalf("expected unusable matches skipped, got %d", len(history.Found[0].Matches))
	}
}

func TestAssembleHistoryEmptyCollections(t *testing.T) {
	t.Parallel()

	history := match.AssembleHistory(match.HistoryPayload{}, items.Options{}, nil)
	if len(history.Lost) != 0 || len(history.Found) != 0 {
		t.Fatalf("expected empty history, got %d lost / %d found", len(history.Lost), len(history.Found))
	}
}

func TestHistoryPayloadLegacyKeys(t *testing.T) {
	t.Parallel()

	raw := `{
		"lost": [{"id": "l1", "title": "Lost bag", "image_url": "b.jpg"}],
		"found": [{"item": {"id": "f1", "title": "Found bag", "image_url": "c.jpg"},
		           "matches": [{"similarity": 0.8, "matched_item": {"id": "m1", "title": "bag", "image_url": "d.jpg"}}]}]
	}`

	var payload match.HistoryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	history := match.AssembleHistory(payload, items.Options{BaseURL: "https://api.example.com"}, nil)
	if len(history.Lost) != 1 {
		t.Fatalf("expected legacy lost key honored, got %d groups", len(history.Lost))
	}
	if len(history.Lost[0].Matches) != 0 {
		t.Fatalf("expected bare legacy entry to carry no matches, got %d", len(history.Lost[0].Matches))
	}
	if len(history.Found) != 1 || len(history.Found[0].Matches) != 1 {
		t.Fatal("expected wrapped found entry with one match")
	}
	if history.Found[0].Matches[0].Item.ID != "m1" {
		t.Fatalf("expected matched_item variant decoded, got %q", history.Found[0].Matches[0].Item.ID)
	}
}

func TestHistoryPayloadPrefersVersionedKeys(t *testing.T) {
	t.Parallel()

	raw := `{
		"lost_items": [{"item": {"id": "v1", "title": "x", "image_url": "a.jpg"}, "matches": []}],
		"lost": [{"id": "legacy", "title": "y", "image_url": "b.jpg"}]
	}`

	var payload match.HistoryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	history := match.AssembleHistory(payload, items.Options{}, nil)
	if len(history.Lost) != 1 || history.Lost[0].Item.ID != "v1" {
		t.Fatal("expected versioned lost_items key to take precedence")
	}
}
