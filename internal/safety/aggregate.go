package safety

import (
	"sort"
	"strings"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// aggregate merges structured and heuristic findings into the final ordered
// warning list.
//
// Two warnings are duplicates when they share a type and their source refs
// name the same underlying group: a structured milk warning (ref lists the
// matched allergen names) absorbs the heuristic milk warning (ref is the
// group name). The structured one is listed first, so "keep the first"
// always keeps the structured source.
//
// Output order is a UI contract: ALLERGY, then DISEASE, then INFO; within a
// section, structured warnings before heuristic ones, otherwise stable.
func aggregate(structured, heuristic []domain.Warning) []domain.Warning {
	merged := make([]domain.Warning, 0, len(structured)+len(heuristic))
	merged = append(merged, structured...)

	for _, h := range heuristic {
		if isDuplicate(merged, h) {
			continue
		}
		merged = append(merged, h)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Type != merged[j].Type {
			return merged[i].Type.Less(merged[j].Type)
		}
		return merged[i].Source < merged[j].Source
	})

	return merged
}

// isDuplicate reports whether an equivalent warning is already present.
// Same-type refs match on containment: a combined structured allergy ref
// ("우유, 대두") covers the heuristic group ref ("우유").
func isDuplicate(existing []domain.Warning, w domain.Warning) bool {
	for _, e := range existing {
		if e.Type != w.Type {
			continue
		}
		if e.SourceRef == w.SourceRef || strings.Contains(e.SourceRef, w.SourceRef) {
			return true
		}
	}
	return false
}
