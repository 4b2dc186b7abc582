package match

import (
	"log/slog"
	"sort"

	"mafqood/internal/items"
	"mafqood/internal/logging"
)

// Group is one reported item together with its ranked candidate matches.
// Matches are ordered by descending similarity; ties keep the backend's
// original order.
type Group struct {
	Item    items.Item
	Matches []Match
}

// History holds the assembled match groups for both sides of a user's
// report history, in the backend's item order.
type History struct {
	Lost  []Group
	Found []Group
}

// AssembleHistory converts a backend history payload into ordered match
// groups. Malformed individual items are dropped with a log line without
// aborting the rest of the collection; match skips are likewise dropped.
func AssembleHistory(payload HistoryPayload, opts items.Options, logger *slog.Logger) History {
	if logger == nil {
		logger = logging.NewNop()
	}
	return History{
		Lost:  assembleSide(payload.lostEntries(), opts, logger),
		Found: assembleSide(payload.foundEntries(), opts, logger),
	}
}

// AssembleGroup builds a single group from an item record and its raw
// matches, as returned by the submission endpoints.
func AssembleGroup(rec items.ItemRecord, matches []MatchRecord, opts items.Options, logger *slog.Logger) (Group, error) {
	item, err := items.Normalize(rec, opts)
	if err != nil {
		return Group{}, err
	}
	return Group{Item: item, Matches: normalizeMatches(item, matches, opts, logger)}, nil
}

func assembleSide(entries []HistoryEntry, opts items.Options, logger *slog.Logger) []Group {
	groups := make([]Group, 0, len(entries))
	for _, entry := range entries {
		if entry.Item == nil {
			continue
		}
		item, err := items.Normalize(*entry.Item, opts)
		if err != nil {
			logger.Warn("dropping malformed history item", logging.Error(err))
			continue
		}
		groups = append(groups, Group{Item: item, Matches: normalizeMatches(item, entry.Matches, opts, logger)})
	}
	return groups
}

// normalizeMatches runs the two-pass build: construct match shells, then
// anchor each survivor to the just-normalized item, then rank.
func normalizeMatches(anchor items.Item, records []MatchRecord, opts items.Options, logger *slog.Logger) []Match {
	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		m, ok := Normalize(rec, opts, logger)
		if !ok {
			continue
		}
		matches = append(matches, m.WithAnchor(anchor))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Fraction > matches[j].Fraction
	})
	return matches
}
