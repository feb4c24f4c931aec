package services

import "github.com/custodia-labs/meetsync/internal/core/domain"

// Dedupe collapses meetings sharing the same (SourceID, ExternalID),
// keeping the first occurrence. Discovery may surface the same remote item
// through several origins (an owned listing and a shared-items search);
// the metadata of whichever origin was enumerated first wins.
func Dedupe(items []domain.Meeting) []domain.Meeting {
	if len(items) < 2 {
		return items
	}

	type key struct{ sourceID, externalID string }
	seen := make(map[key]struct{}, len(items))
	unique := make([]domain.Meeting, 0, len(items))
	for _, m := range items {
		k := key{m.SourceID, m.ExternalID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}
