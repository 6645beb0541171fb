// Package store queries stored physical records by document identifier
// or by caller-supplied jsonpath expressions, in memory or in
// PostgreSQL.
package store

import (
	"context"
	"sort"
	"time"

	"bibcompose/src/internal/schema"
)

// Ref is one stored physical record: a raw body filed under a dataset
// and reference identifier. Result sets are ordered newest first.
type Ref struct {
	Dataset    string         `json:"dataset" yaml:"dataset"`
	Reference  string         `json:"ref" yaml:"ref"`
	Body       map[string]any `json:"body" yaml:"body"`
	LatestDate time.Time      `json:"latest_date,omitempty" yaml:"latest_date,omitempty"`
}

// Finder locates physical records matching a docid query structure.
type Finder interface {
	ByDocID(ctx context.Context, query map[string]any) ([]Ref, error)
}

// PathFinder runs jsonpath predicate searches over stored records.
type PathFinder interface {
	ByJSONPath(ctx context.Context, expr string) ([]Ref, error)
}

// DocIDQuery converts an identifier into the containment structure the
// finders match stored docid entries against.
func DocIDQuery(id schema.DocID) map[string]any {
	q := map[string]any{"id": id.ID, "type": id.Type}
	if id.Primary {
		q["primary"] = true
	}
	return q
}

// Memory is an in-memory Finder for tests and small fixed datasets.
type Memory struct {
	refs []Ref
}

func NewMemory(refs ...Ref) *Memory { return &Memory{refs: refs} }

// Add appends records to the collection.
func (m *Memory) Add(refs ...Ref) { m.refs = append(m.refs, refs...) }

// ByDocID returns records whose body carries a docid entry containing
// every field of query, newest first.
func (m *Memory) ByDocID(ctx context.Context, query map[string]any) ([]Ref, error) {
	var out []Ref
	for _, r := range m.refs {
		if bodyHasDocID(r.Body, query) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LatestDate.After(out[j].LatestDate) })
	return out, nil
}

func bodyHasDocID(body, query map[string]any) bool {
	ids, _ := body["docid"].([]any)
	for _, v := range ids {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		match := true
		for k, want := range query {
			if entry[k] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
