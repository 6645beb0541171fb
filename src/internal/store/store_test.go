package store

import (
	"context"
	"testing"
	"time"

	"bibcompose/src/internal/schema"
)

func TestDocIDQuery(t *testing.T) {
	q := DocIDQuery(schema.DocID{Type: schema.DocIDTypeDOI, ID: "10.1/x"})
	if len(q) != 2 || q["id"] != "10.1/x" || q["type"] != "DOI" {
		t.Fatalf("query: %+v", q)
	}
	if _, ok := q["primary"]; ok {
		t.Fatalf("primary must be absent when unset: %+v", q)
	}

	q = DocIDQuery(schema.DocID{Type: schema.DocIDTypeDOI, ID: "10.1/x", Primary: true})
	if q["primary"] != true {
		t.Fatalf("primary flag lost: %+v", q)
	}
}

func refWithDocID(dataset, ref, id string, age time.Duration) Ref {
	return Ref{
		Dataset:   dataset,
		Reference: ref,
		Body: map[string]any{
			"docid": []any{map[string]any{"type": "DOI", "id": id}},
		},
		LatestDate: time.Now().Add(-age),
	}
}

func TestMemoryByDocID(t *testing.T) {
	m := NewMemory(
		refWithDocID("dataset-a", "older", "10.1/x", 48*time.Hour),
		refWithDocID("dataset-b", "newer", "10.1/x", time.Hour),
		refWithDocID("dataset-a", "other", "10.1/y", time.Hour),
	)
	got, err := m.ByDocID(context.Background(), map[string]any{"type": "DOI", "id": "10.1/x"})
	if err != nil {
		t.Fatalf("ByDocID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 refs, got %+v", got)
	}
	if got[0].Reference != "newer" || got[1].Reference != "older" {
		t.Fatalf("not newest first: %s then %s", got[0].Reference, got[1].Reference)
	}
}

func TestMemoryByDocIDContainment(t *testing.T) {
	m := NewMemory(Ref{
		Dataset:   "dataset-a",
		Reference: "ref1",
		Body: map[string]any{
			"docid": []any{map[string]any{"type": "DOI", "id": "10.1/x", "primary": true}},
		},
	})

	// The stored entry may carry more fields than the query names.
	got, err := m.ByDocID(context.Background(), map[string]any{"type": "DOI", "id": "10.1/x"})
	if err != nil || len(got) != 1 {
		t.Fatalf("containment match failed: %v %+v", err, got)
	}

	// A query field the entry lacks rules the record out.
	got, err = m.ByDocID(context.Background(), map[string]any{"type": "DOI", "id": "10.1/x", "scope": "anchor"})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no match: %v %+v", err, got)
	}
}
