// Package openlibrary fetches book metadata from the OpenLibrary Books
// API and maps it into the canonical bibliographic schema.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bibcompose/src/internal/httpx"
	"bibcompose/src/internal/isbn"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
)

// DefaultAPIBase is the OpenLibrary API root.
const DefaultAPIBase = "https://openlibrary.org"

// ErrNotISBN is returned when an identifier of the wrong type is handed
// to this source.
var ErrNotISBN = errors.New("openlibrary requires an ISBN document identifier")

// SourceMeta is the fixed source metadata attached to records fetched
// from OpenLibrary.
func SourceMeta() sources.Meta {
	return sources.Meta{ID: "openlibrary-api", HomeURL: "https://openlibrary.org"}
}

// Client calls the OpenLibrary books API.
type Client struct {
	http httpx.Doer
	base string
	ua   string
}

// New returns a Client identifying itself with the given User-Agent.
func New(ua string) *Client {
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		base: DefaultAPIBase,
		ua:   ua,
	}
}

// SetHTTPClient allows tests to inject a fake HTTP client.
func (c *Client) SetHTTPClient(d httpx.Doer) { c.http = d }

// SetAPIBase points the client at a different API root.
func (c *Client) SetAPIBase(base string) { c.base = strings.TrimRight(base, "/") }

func (c *Client) booksURL(key, jscmd string) string {
	q := url.Values{}
	q.Set("bibkeys", key)
	q.Set("format", "json")
	q.Set("jscmd", jscmd)
	return c.base + "/api/books?" + q.Encode()
}

// Book is the subset of an OpenLibrary book record this service
// consumes, as returned by the jscmd=data shape.
type Book struct {
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Authors    []NamedItem `json:"authors"`
	Publishers []NamedItem `json:"publishers"`
}

// NamedItem is OpenLibrary's {"name": ...} wrapper object.
type NamedItem struct {
	Name string `json:"name"`
}

// Book fetches the raw book record for a normalized ISBN. Returns
// sources.ErrNotFound when OpenLibrary has no matching record.
func (c *Client) Book(ctx context.Context, norm string) (Book, error) {
	key := "ISBN:" + norm
	raw, err := c.getJSON(ctx, c.booksURL(key, "data"))
	if err != nil {
		return Book{}, err
	}
	dataRaw, ok := raw[key]
	if !ok || len(dataRaw) == 0 {
		return Book{}, sources.ErrNotFound
	}
	var b Book
	if err := json.Unmarshal(dataRaw, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// description fetches the jscmd=details record for a book and extracts
// its description text. Failures are swallowed; books without a
// description are common.
func (c *Client) description(ctx context.Context, key string) string {
	raw, err := c.getJSON(ctx, c.booksURL(key, "details"))
	if err != nil {
		return ""
	}
	entryRaw, ok := raw[key]
	if !ok || len(entryRaw) == 0 {
		return ""
	}
	var entry struct {
		Details struct {
			Description any `json:"description"`
		} `json:"details"`
	}
	if err := json.Unmarshal(entryRaw, &entry); err != nil {
		return ""
	}
	return toDescription(entry.Details.Description)
}

// getJSON issues a GET for one of the keyed OpenLibrary response
// objects, which arrive as {"ISBN:...": {...}}.
func (c *Client) getJSON(ctx context.Context, endpoint string) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	httpx.SetUA(req, c.ua)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openlibrary: http %d: %s", resp.StatusCode, string(b))
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// toDescription coerces either a string or {"value": string} into a
// description.
func toDescription(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s, ok := t["value"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// FetchBibItem retrieves book metadata for an ISBN and maps it into a
// canonical record wrapped with source metadata and its validation
// outcome.
//
// The identifier must carry type ISBN (ErrNotISBN otherwise). Under
// strict validation a failing record surfaces as *schema.ValidationError;
// otherwise the problems are captured on the returned item.
func (c *Client) FetchBibItem(ctx context.Context, id schema.DocID, strict bool) (sources.ExternalItem, error) {
	if id.Type != schema.DocIDTypeISBN {
		return sources.ExternalItem{}, fmt.Errorf("%w, got %q", ErrNotISBN, id.Type)
	}
	norm := isbn.Normalize(id.ID)
	key := "ISBN:" + norm
	b, err := c.Book(ctx, norm)
	if err != nil {
		return sources.ExternalItem{}, err
	}
	requests := []string{c.booksURL(key, "data"), c.booksURL(key, "details")}
	desc := c.description(ctx, key)
	res, err := schema.Check(mapBook(norm, b, desc), strict)
	if err != nil {
		return sources.ExternalItem{}, err
	}
	return sources.ExternalItem{
		Source:           SourceMeta(),
		Item:             res.Item,
		ValidationErrors: res.Errors,
		Requests:         requests,
	}, nil
}

// mapBook converts a raw OpenLibrary book into a canonical record. The
// normalized ISBN supplies the identifier; 13-digit forms regroup into
// the dashed display form.
func mapBook(norm string, b Book, desc string) schema.Item {
	var it schema.Item
	id := norm
	if len(id) == 13 {
		id = isbn.Dash13(id)
	}
	it.DocID = []schema.DocID{{Type: schema.DocIDTypeISBN, ID: id}}
	if b.Title != "" {
		it.Title = []schema.Title{{Content: b.Title}}
	}
	if b.URL != "" {
		it.Link = []schema.Link{{Content: b.URL}}
	}
	if desc != "" {
		it.Abstract = []schema.StringValue{{Content: desc}}
	}
	for _, a := range b.Authors {
		if a.Name == "" {
			continue
		}
		// OpenLibrary ships display names; they are kept whole rather
		// than split into surname and forename.
		it.Contributor = append(it.Contributor, schema.Contributor{
			Role:   []string{schema.RoleAuthor},
			Person: &schema.Person{Name: schema.PersonName{CompleteName: &schema.StringValue{Content: a.Name}}},
		})
	}
	for _, p := range b.Publishers {
		if p.Name == "" {
			continue
		}
		it.Contributor = append(it.Contributor, schema.Contributor{
			Role:         []string{schema.RolePublisher},
			Organization: &schema.Organization{Name: []string{p.Name}},
		})
	}
	return it
}
