// Package match converts backend match records into canonical matches
// and assembles per-item match groups from history payloads.
package match

// Confidence is the coarse tier shown next to a match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Display-tier breakpoints on the 0-100 similarity scale. These are the
// single source of truth for confidence labeling; call sites never
// compare against literals.
const (
	HighConfidencePercent   = 80
	MediumConfidencePercent = 60
)

// Inclusion thresholds on the raw 0-1 similarity fraction. These gate
// whether a match is surfaced at all, which is a different decision from
// how it is labeled, so the two threshold sets are deliberately kept
// separate even though their values do not line up.
const (
	MinMatchScore  = 0.70
	HighMatchScore = 0.75
)

// Classify maps a 0-100 similarity percentage to a confidence tier.
func Classify(percent int) Confidence {
	switch {
	case percent >= HighConfidencePercent:
		return ConfidenceHigh
	case percent >= MediumConfidencePercent:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Includable reports whether a raw similarity fraction clears the
// minimum bar for being surfaced to the user.
func Includable(fraction float64) bool {
	return fraction >= MinMatchScore
}

// HighMatch reports whether a raw similarity fraction qualifies as a
// high match in list-filtering contexts.
func HighMatch(fraction float64) bool {
	return fraction >= HighMatchScore
}
