package match_test

import (
	"encoding/json"
	"testing"

	"mafqood/internal/items"
	"mafqood/internal/logging"
	"mafqood/internal/match"
)

func itemRecord(id, title string) *items.ItemRecord {
	return &items.ItemRecord{
		ID:       json.RawMessage(`"` + id + `"`),
		Title:    title,
		ImageURL: "uploads/" + id + ".jpg",
	}
}

func TestNormalizeConvertsFractionToPercent(t *testing.T) {
	t.Parallel()

	rec := match.MatchRecord{Similarity: 0.82, Item: itemRecord("m1", "Black wallet")}
	m, ok := match.Normalize(rec, items.Options{}, logging.NewNop())
	if !ok {
		t.Fatal("expected match to normalize")
	}
	if m.Similarity != 82 {
		t.Fatalf("expected similarity 82, got %d", m.Similarity)
	}
	if m.Confidence != match.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %q", m.Confidence)
	}
}

func TestNormalizeRoundsToNearestPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		fraction float64
		want     int
	}{
		{0.705, 71},
		{0.704, 70},
		{0.999, 100},
		{0, 0},
	}

	for _, tc := range cases {
		rec := match.MatchRecord{Similarity: tc.fraction, Item: itemRecord("m", "wallet")}
		m, ok := match.Normalize(rec, items.Options{}, nil)
		if !ok {
			t.Fatalf("expected match at fraction %v", tc.fraction)
		}
		if m.Similarity != tc.want {
			t.Errorf("fraction %v: expected %d, got %d", tc.fraction, tc.want, m.Similarity)
		}
	}
}

func TestNormalizeAcceptsMatchedItemKey(t *testing.T) {
	t.Parallel()

	rec := match.MatchRecord{Similarity: 0.9, MatchedItem: itemRecord("m2", "Car keys")}
	m, ok := match.Normalize(rec, items.Options{}, nil)
	if !ok {
		t.Fatal("expected matched_item variant to normalize")
	}
	if m.Item.ID != "m2" {
		t.Fatalf("expected nested item id m2, got %q", m.Item.ID)
	}
}

func TestNormalizeSkipsMissingNestedItem(t *testing.T) {
	t.Parallel()

	rec := match.MatchRecord{Similarity: 0.9}
	if _, ok := match.Normalize(rec, items.Options{}, nil); ok {
		t.Fatal("expected match without a nested item to be skipped")
	}
}

func TestNormalizeSkipsMalformedNestedItem(t *testing.T) {
	t.Parallel()

	rec := match.MatchRecord{
		Similarity: 0.9,
		Item:       &items.ItemRecord{Title: "no id or image"},
	}
	if _, ok := match.Normalize(rec, items.Options{}, nil); ok {
		t.Fatal("expected match with an unusable nested item to be skipped")
	}
}

func TestWithAnchorReturnsCopy(t *testing.T) {
	t.Parallel()

	original := match.Match{ID: "m", Similarity: 80}
	anchored := original.WithAnchor(items.Item{ID: "anchor"})

	if original.Anchor != nil {
		t.Fatal("expected receiver to stay unanchored")
	}
	if anchored.Anchor == nil || anchored.Anchor.ID != "anchor" {
		t.Fatal("expected copy to carry the anchor")
	}
}

func TestDisplayableAndHighGates(t *testing.T) {
	t.Parallel()

	m := match.Match{Similarity: 70, Fraction: 0.70}
	if !m.Displayable() {
		t.Fatal("expected 0.70 to be displayable")
	}
	if m.IsHigh() {
		t.Fatal("expected 0.70 to be below the high bar")
	}

	m = match.Match{Similarity: 75, Fraction: 0.75}
	if !m.IsHigh() {
		t.Fatal("expected 0.75 to clear the high bar")
	}

	m = match.Match{Similarity: 69, Fraction: 0.69}
	if m.Displayable() {
		t.Fatal("expected 0.69 to be excluded")
	}
}

func TestInclusionGatesUseRawFractionNotRoundedPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		fraction    float64
		percent     int
		displayable bool
		high        bool
	}{
		// 0.695 and 0.745 round up for display but must not clear the
		// gates, which are defined on the wire fraction.
		{0.695, 70, false, false},
		{0.70, 70, true, false},
		{0.745, 75, true, false},
		{0.75, 75, true, true},
	}

	for _, tc := range cases {
		rec := match.MatchRecord{Similarity: tc.fraction, Item: itemRecord("m", "wallet")}
		m, ok := match.Normalize(rec, items.Options{}, nil)
		if !ok {
			t.Fatalf("expected match at fraction %v", tc.fraction)
		}
		if m.Similarity != tc.percent {
			t.Errorf("fraction %v: percent = %d, want %d", tc.fraction, m.Similarity, tc.percent)
		}
		if m.Fraction != tc.fraction {
			t.Errorf("fraction %v: raw fraction not preserved, got %v", tc.fraction, m.Fraction)
		}
		if got := m.Displayable(); got != tc.displayable {
			t.Errorf("fraction %v: Displayable() = %v, want %v", tc.fraction, got, tc.displayable)
		}
		if got := m.IsHigh(); got != tc.high {
			t.Errorf("fraction %v: IsHigh() = %v, want %v", tc.fraction, got, tc.high)
		}
	}
}
