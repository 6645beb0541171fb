package sources

import "testing"

func TestRegistryMeta(t *testing.T) {
	r := NewRegistry()
	r.Register("crossref", Meta{ID: "crossref-api", HomeURL: "http://api.crossref.org"})

	m := r.Meta("crossref")
	if m.ID != "crossref-api" || m.HomeURL != "http://api.crossref.org" {
		t.Fatalf("registered meta not returned: %+v", m)
	}

	// Unknown datasets fall back to a bare meta.
	m = r.Meta("rfcs")
	if m.ID != "rfcs" || m.HomeURL != "" {
		t.Fatalf("fallback meta wrong: %+v", m)
	}
}

func TestRegistryIndexedObject(t *testing.T) {
	r := NewRegistry()
	obj := r.IndexedObject("rfcs", "RFC2119")
	if obj.Name != "RFC2119" {
		t.Fatalf("indexed object name: %+v", obj)
	}
}
