// Package compose reconciles multiple physical records describing one
// logical work into a single provenance-tracked composite record.
package compose

import (
	"fmt"
	"log/slog"

	"bibcompose/src/internal/merge"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
	"bibcompose/src/internal/store"
)

// Composite is the reconciled view of one logical work. Sources maps
// "reference@sourceID" to the item derived from that physical record;
// every input record contributes exactly one entry.
type Composite struct {
	schema.Item  `yaml:",inline"`
	Sources      map[string]sources.IndexedItem `json:"sources" yaml:"sources"`
	PrimaryDocID *schema.DocID                  `json:"primary_docid,omitempty" yaml:"primary_docid,omitempty"`
}

// Composer assembles composite records.
type Composer struct {
	reg *sources.Registry
	log *slog.Logger
}

// New returns a Composer resolving dataset metadata through reg.
// A nil logger falls back to slog.Default.
func New(reg *sources.Registry, log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{reg: reg, log: log}
}

// Compose folds the supplied physical records into one composite
// record with per-record provenance. Callers supply records newest
// first; the merge keeps the first-seen value of every scalar.
//
// Each record's body is also validated on its own. Under lenient
// validation per-record failures are captured in the provenance map
// and the composite is still produced, with valid=false as a
// data-quality signal. Under strict validation the first failing
// record aborts the call with a *schema.ValidationError.
//
// When primary is nil the primary identifier is resolved from the
// merged identifier list; a supplied primary that fails the
// eligibility predicate is dropped with a warning.
func (c *Composer) Compose(refs []store.Ref, primary *schema.DocID, strict bool) (Composite, bool, error) {
	var base map[string]any
	srcs := make(map[string]sources.IndexedItem, len(refs))
	sawInvalid := false

	for _, ref := range refs {
		meta := c.reg.Meta(ref.Dataset)
		obj := c.reg.IndexedObject(ref.Dataset, ref.Reference)
		key := ref.Reference + "@" + meta.ID

		if err := merge.Merge(&base, ref.Body); err != nil {
			return Composite{}, false, fmt.Errorf("merge record %s: %w", key, err)
		}
		res, err := schema.Construct(ref.Body, strict)
		if err != nil {
			return Composite{}, false, fmt.Errorf("validate record %s: %w", key, err)
		}
		if !res.Valid() {
			sawInvalid = true
		}
		srcs[key] = sources.IndexedItem{
			IndexedObject:    obj,
			Source:           meta,
			Item:             res.Item,
			ValidationErrors: res.Errors,
		}
	}

	valid := true
	var res schema.Result
	var err error
	if !strict && sawInvalid {
		res, err = schema.Construct(base, false)
		if err != nil {
			return Composite{}, false, err
		}
		c.log.Error("failed to validate composite sourced bibliographic item",
			"primary_docid", primary,
			"errors", res.Errors)
		valid = false
	} else {
		// Every record validated individually, so a failure here is a
		// defect in the merge, not bad source data.
		res, err = schema.Construct(base, true)
		if err != nil {
			return Composite{}, false, fmt.Errorf("compose composite record: %w", err)
		}
	}

	if primary == nil {
		primary = PrimaryDocID(res.Item.DocID)
	} else if !eligiblePrimary(*primary) {
		c.log.Warn("supplied primary identifier is not eligible, dropping it",
			"id", primary.ID, "type", primary.Type)
		primary = nil
	}

	return Composite{Item: res.Item, Sources: srcs, PrimaryDocID: primary}, valid, nil
}
