package match

import (
	"errors"
	"log/slog"
	"math"

	"mafqood/internal/items"
	"mafqood/internal/logging"
)

// Match is the canonical projection of a backend match record.
//
// Similarity is always on the 0-100 scale even though the wire carries a
// 0-1 fraction; Fraction keeps the raw wire value because the inclusion
// gates are defined on it, not on the rounded percent. Anchor is the
// user's own item the match is relative to; it is nil until the
// assembler fills it in via WithAnchor, and a Match is not complete
// until then.
type Match struct {
	ID         string
	Anchor     *items.Item
	Item       items.Item
	Similarity int
	Fraction   float64
	Confidence Confidence
	CreatedAt  string
}

// WithAnchor returns a copy of the match with the anchor item set. The
// receiver is left untouched; the two-step build keeps matches
// effectively immutable once assembly completes.
func (m Match) WithAnchor(anchor items.Item) Match {
	m.Anchor = &anchor
	return m
}

// Normalize converts one backend match record into a canonical Match.
// The second return value is false when the record must be skipped: the
// nested item is absent or cannot be normalized. Skips are an expected,
// non-fatal condition; they are logged and excluded from results, never
// surfaced as errors.
func Normalize(rec MatchRecord, opts items.Options, logger *slog.Logger) (Match, bool) {
	if logger == nil {
		logger = logging.NewNop()
	}

	nested := rec.nested()
	if nested == nil {
		logger.Debug("skipping match without a nested item")
		return Match{}, false
	}

	item, err := items.Normalize(*nested, opts)
	if err != nil {
		if errors.Is(err, items.ErrMalformedRecord) {
			logger.Warn("skipping match with unusable nested item", logging.Error(err))
			return Match{}, false
		}
		logger.Warn("skipping match", logging.Error(err))
		return Match{}, false
	}

	percent := percentOf(rec.Similarity)
	return Match{
		ID:         item.ID,
		Item:       item,
		Similarity: percent,
		Fraction:   rec.Similarity,
		Confidence: Classify(percent),
		CreatedAt:  rec.CreatedAt,
	}, true
}

// Displayable reports whether the match clears the minimum inclusion
// threshold. Assembly keeps every match; list surfaces apply this gate.
// The gate runs on the raw fraction: 0.695 rounds to 70% for display but
// is still excluded.
func (m Match) Displayable() bool {
	return Includable(m.Fraction)
}

// IsHigh reports whether the match clears the high-match bar used by
// list-filtering contexts. Distinct from the ConfidenceHigh display
// tier, and gated on the raw fraction like Displayable.
func (m Match) IsHigh() bool {
	return HighMatch(m.Fraction)
}

// percentOf converts a 0-1 similarity fraction to a 0-100 integer,
// rounding to nearest. This is the one conversion policy used everywhere.
func percentOf(fraction float64) int {
	return int(math.Round(fraction * 100))
}
