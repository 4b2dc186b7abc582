package match_test

import (
	"testing"

	"mafqood/internal/match"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		percent int
		want    match.Confidence
	}{
		{100, match.ConfidenceHigh},
		{80, match.ConfidenceHigh},
		{79, match.ConfidenceMedium},
		{60, match.ConfidenceMedium},
		{59, match.ConfidenceLow},
		{0, match.ConfidenceLow},
	}

	for _, tc := range cases {
		if got := match.Classify(tc.percent); got != tc.want {
			t.Errorf("Classify(%d) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestInclusionThresholds(t *testing.T) {
	t.Parallel()

	if !match.Includable(0.70) {
		t.Fatal("expected 0.70 to be includable")
	}
	if match.Includable(0.699) {
		t.Fatal("expected 0.699 to be excluded")
	}
	if !match.HighMatch(0.75) {
		t.Fatal("expected 0.75 to be a high match")
	}
	if match.HighMatch(0.749) {
		t.Fatal("expected 0.749 to be below the high-match bar")
	}

	// The inclusion bar and the display tier bar are distinct scales: a
	// 0.75 fraction is a high match for filtering but sits in the medium
	// confidence tier for labeling.
	if match.Classify(75) != match.ConfidenceMedium {
		t.Fatal("expected 75% to label as medium confidence")
	}
}
