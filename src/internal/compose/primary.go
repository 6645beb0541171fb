package compose

import (
	"log/slog"

	"bibcompose/src/internal/schema"
)

// PrimaryDocID selects the canonical primary identifier from a record's
// identifier list. Eligible are identifiers flagged primary that carry
// an id and a type but no scope. Candidates with the same unordered
// (id, type) pair count once. Anything other than exactly one distinct
// candidate logs a warning, and the first eligible identifier in list
// order is returned as a degraded result, or nil when none is eligible.
func PrimaryDocID(ids []schema.DocID) *schema.DocID {
	var eligible []schema.DocID
	for _, id := range ids {
		if eligiblePrimary(id) {
			eligible = append(eligible, id)
		}
	}
	distinct := map[string]struct{}{}
	for _, id := range eligible {
		distinct[pairKey(id)] = struct{}{}
	}
	if len(distinct) != 1 {
		slog.Warn("unexpected number of primary identifiers",
			"eligible", len(eligible),
			"distinct", len(distinct))
	}
	if len(eligible) == 0 {
		return nil
	}
	return &eligible[0]
}

func eligiblePrimary(id schema.DocID) bool {
	return id.Primary && id.ID != "" && id.Type != "" && id.Scope == ""
}

// pairKey is insensitive to the order of the two values, so swapped
// id/type entries collapse into one candidate.
func pairKey(id schema.DocID) string {
	a, b := id.ID, id.Type
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
