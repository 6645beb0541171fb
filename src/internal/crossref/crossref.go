// Package crossref fetches DOI metadata from the Crossref REST API and
// maps it into the canonical bibliographic schema.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bibcompose/src/internal/httpx"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
	"bibcompose/src/internal/stringsx"
)

// DefaultAPIBase is the Crossref REST API root.
const DefaultAPIBase = "https://api.crossref.org"

// ErrNotDOI is returned when an identifier of the wrong type is handed
// to this source.
var ErrNotDOI = errors.New("crossref requires a DOI document identifier")

// Etiquette identifies the service to Crossref, which admits identified
// callers to the polite pool. Construct it once at startup and pass it
// to New; it is immutable afterwards.
type Etiquette struct {
	AppName    string
	AppVersion string
	AppURL     string
	Email      string
}

// UserAgent renders the etiquette as a User-Agent string.
func (e Etiquette) UserAgent() string {
	ua := e.AppName
	if e.AppVersion != "" {
		ua += "/" + e.AppVersion
	}
	var mail string
	if e.Email != "" {
		mail = "mailto:" + e.Email
	}
	if extra := stringsx.JoinNonEmpty("; ", e.AppURL, mail); extra != "" {
		ua += " (" + extra + ")"
	}
	return ua
}

// SourceMeta is the fixed source metadata attached to records fetched
// from Crossref.
func SourceMeta() sources.Meta {
	return sources.Meta{ID: "crossref-api", HomeURL: "http://api.crossref.org"}
}

// Client calls the Crossref works API.
type Client struct {
	http      httpx.Doer
	base      string
	etiquette Etiquette
}

// New returns a Client identifying itself with the given etiquette.
func New(et Etiquette) *Client {
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		base:      DefaultAPIBase,
		etiquette: et,
	}
}

// SetHTTPClient allows tests to inject a fake HTTP client.
func (c *Client) SetHTTPClient(d httpx.Doer) { c.http = d }

// SetAPIBase points the client at a different API root.
func (c *Client) SetAPIBase(base string) { c.base = strings.TrimRight(base, "/") }

func (c *Client) workURL(doi string) string {
	return c.base + "/works/" + strings.TrimSpace(doi)
}

// workEnvelope is the wrapper every Crossref REST response arrives in.
type workEnvelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
}

// Work fetches the raw work record for a DOI. Returns
// sources.ErrNotFound when Crossref has no matching record.
func (c *Client) Work(ctx context.Context, doi string) (Work, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.workURL(doi), nil)
	if err != nil {
		return Work{}, err
	}
	req.Header.Set("Accept", "application/json")
	httpx.SetUA(req, c.etiquette.UserAgent())
	resp, err := c.http.Do(req)
	if err != nil {
		return Work{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return Work{}, sources.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Work{}, fmt.Errorf("crossref: http %d: %s", resp.StatusCode, string(b))
	}
	var env workEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Work{}, err
	}
	if len(env.Message) == 0 || string(env.Message) == "null" {
		return Work{}, sources.ErrNotFound
	}
	var w Work
	if err := json.Unmarshal(env.Message, &w); err != nil {
		return Work{}, err
	}
	return w, nil
}

// FetchBibItem retrieves DOI metadata and maps it into a canonical
// record wrapped with source metadata and its validation outcome.
//
// The identifier must carry type DOI (ErrNotDOI otherwise). Under
// strict validation a failing record surfaces as *schema.ValidationError;
// otherwise the problems are captured on the returned item.
func (c *Client) FetchBibItem(ctx context.Context, id schema.DocID, strict bool) (sources.ExternalItem, error) {
	if id.Type != schema.DocIDTypeDOI {
		return sources.ExternalItem{}, fmt.Errorf("%w, got %q", ErrNotDOI, id.Type)
	}
	w, err := c.Work(ctx, id.ID)
	if err != nil {
		return sources.ExternalItem{}, err
	}
	res, err := schema.Check(mapWork(id, w), strict)
	if err != nil {
		return sources.ExternalItem{}, err
	}
	return sources.ExternalItem{
		Source:           SourceMeta(),
		Item:             res.Item,
		ValidationErrors: res.Errors,
		Requests:         []string{c.workURL(id.ID)},
	}, nil
}
