// Package merge folds raw record bodies into a single accumulator.
//
// Policy: a scalar the accumulator already holds is kept, a scalar it
// lacks is filled from the incoming body, list values are concatenated
// in encounter order without de-duplication, and nested maps are merged
// recursively under the same rules. Callers supply bodies newest first,
// so keeping the first-seen scalar gives latest-value-wins semantics.
// A scalar present but zero-valued (empty string, false, 0) counts as
// unset and will be filled by a later body.
package merge

import (
	"dario.cat/mergo"
)

// Merge deep-merges body into the accumulator in place. The body is
// deep-copied first so the accumulator never aliases caller-owned data.
func Merge(acc *map[string]any, body map[string]any) error {
	if *acc == nil {
		*acc = make(map[string]any, len(body))
	}
	return mergo.Merge(acc, cloneMap(body), mergo.WithAppendSlice)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
