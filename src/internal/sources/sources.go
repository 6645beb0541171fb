// Package sources describes where bibliographic data came from: external
// provider metadata, per-record envelopes carrying validation outcomes,
// and a registry of known datasets.
package sources

import (
	"errors"

	"bibcompose/src/internal/schema"
)

// ErrNotFound is returned when a source has no matching record.
var ErrNotFound = errors.New("no matching record found")

// Meta identifies an external bibliographic data source.
type Meta struct {
	ID      string `json:"id" yaml:"id"`
	HomeURL string `json:"home_url,omitempty" yaml:"home_url,omitempty"`
}

// IndexedObject describes where a physical record is stored.
type IndexedObject struct {
	Name string `json:"name" yaml:"name"`
}

// ExternalItem wraps a record fetched from an external source together
// with its validation outcome and the HTTP requests made to obtain it.
// Requests is empty when request tracking is off.
type ExternalItem struct {
	Source           Meta        `json:"source" yaml:"source"`
	Item             schema.Item `json:"bibitem" yaml:"bibitem"`
	ValidationErrors []string    `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`
	Requests         []string    `json:"requests,omitempty" yaml:"requests,omitempty"`
}

// IndexedItem wraps the record derived from one stored physical record.
type IndexedItem struct {
	IndexedObject    IndexedObject `json:"indexed_object" yaml:"indexed_object"`
	Source           Meta          `json:"source" yaml:"source"`
	Item             schema.Item   `json:"bibitem" yaml:"bibitem"`
	ValidationErrors []string      `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`
}

// Registry maps dataset identifiers to source metadata. Populate it at
// startup; lookups after that need no locking.
type Registry struct {
	metas map[string]Meta
}

func NewRegistry() *Registry {
	return &Registry{metas: map[string]Meta{}}
}

// Register records the metadata for a dataset.
func (r *Registry) Register(dataset string, m Meta) { r.metas[dataset] = m }

// Meta returns the metadata registered for a dataset. Unknown datasets
// get a bare Meta carrying the dataset id, so lookups never fail.
func (r *Registry) Meta(dataset string) Meta {
	if m, ok := r.metas[dataset]; ok {
		return m
	}
	return Meta{ID: dataset}
}

// IndexedObject returns storage metadata for one physical record.
func (r *Registry) IndexedObject(dataset, ref string) IndexedObject {
	return IndexedObject{Name: ref}
}
