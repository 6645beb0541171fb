package crossref

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
)

type testHTTP struct {
	status int
	body   string
	req    *http.Request
}

func (t *testHTTP) Do(req *http.Request) (*http.Response, error) {
	t.req = req
	return &http.Response{StatusCode: t.status, Body: io.NopCloser(strings.NewReader(t.body)), Header: make(http.Header)}, nil
}

func testEtiquette() Etiquette {
	return Etiquette{AppName: "bibcompose", AppVersion: "1.0", AppURL: "https://bib.example.org", Email: "admin@example.org"}
}

func TestUserAgent(t *testing.T) {
	want := "bibcompose/1.0 (https://bib.example.org; mailto:admin@example.org)"
	if got := testEtiquette().UserAgent(); got != want {
		t.Fatalf("UserAgent: want %q, got %q", want, got)
	}
	if got := (Etiquette{AppName: "bibcompose"}).UserAgent(); got != "bibcompose" {
		t.Fatalf("UserAgent minimal: got %q", got)
	}
}

func TestFetchBibItem_Success(t *testing.T) {
	body := `{"status":"ok","message":{
        "title": ["Example Title"],
        "author": [{"family":"Smith","given":"J","affiliation":[{"name":"Acme"}]}],
        "ISSN": ["1234-5678"],
        "volume": "5",
        "page": "1-10",
        "container-title": ["Journal of Examples"]
    }}`
	c := New(testEtiquette())
	fake := &testHTTP{status: 200, body: body}
	c.SetHTTPClient(fake)

	got, err := c.FetchBibItem(context.Background(), schema.DocID{Type: schema.DocIDTypeDOI, ID: "10.1234/example"}, true)
	if err != nil {
		t.Fatalf("FetchBibItem: %v", err)
	}
	if len(got.ValidationErrors) != 0 {
		t.Fatalf("validation errors: %v", got.ValidationErrors)
	}
	if got.Source.ID != "crossref-api" || got.Source.HomeURL != "http://api.crossref.org" {
		t.Fatalf("source meta: %+v", got.Source)
	}

	it := got.Item
	if len(it.DocID) != 2 {
		t.Fatalf("want 2 identifiers, got %+v", it.DocID)
	}
	if it.DocID[0].Type != schema.DocIDTypeDOI || it.DocID[0].ID != "10.1234/example" {
		t.Fatalf("DOI identifier: %+v", it.DocID[0])
	}
	if it.DocID[1].Type != schema.DocIDTypeISSN || it.DocID[1].ID != "1234-5678" {
		t.Fatalf("ISSN identifier: %+v", it.DocID[1])
	}
	if len(it.Title) == 0 || it.Title[0].Content != "Example Title" || it.Title[0].Type != "" {
		t.Fatalf("primary title: %+v", it.Title)
	}
	if len(it.Contributor) != 1 {
		t.Fatalf("contributors: %+v", it.Contributor)
	}
	au := it.Contributor[0]
	if len(au.Role) != 1 || au.Role[0] != schema.RoleAuthor {
		t.Fatalf("role: %+v", au.Role)
	}
	if au.Person == nil || au.Person.Name.Surname == nil || au.Person.Name.Surname.Content != "Smith" {
		t.Fatalf("surname: %+v", au.Person)
	}
	if len(au.Person.Name.Forename) != 1 || au.Person.Name.Forename[0].Content != "J" {
		t.Fatalf("forename: %+v", au.Person.Name.Forename)
	}
	if len(au.Person.Affiliation) != 1 || len(au.Person.Affiliation[0].Name) != 1 || au.Person.Affiliation[0].Name[0] != "Acme" {
		t.Fatalf("affiliation: %+v", au.Person.Affiliation)
	}
	if len(it.SeriesInfo) != 1 || it.SeriesInfo["Journal of Examples"] != "vol. 5, pp. 1-10" {
		t.Fatalf("seriesinfo: %+v", it.SeriesInfo)
	}
	if it.Volume != "5" || it.Page != "1-10" {
		t.Fatalf("volume/page: %q %q", it.Volume, it.Page)
	}

	wantURL := "https://api.crossref.org/works/10.1234/example"
	if len(got.Requests) != 1 || got.Requests[0] != wantURL {
		t.Fatalf("requests: %+v", got.Requests)
	}
	if fake.req == nil || fake.req.URL.String() != wantURL {
		t.Fatalf("request URL: %v", fake.req)
	}
	if ua := fake.req.Header.Get("User-Agent"); ua != testEtiquette().UserAgent() {
		t.Fatalf("user agent: %q", ua)
	}
}

func TestFetchBibItem_WrongIdentifierType(t *testing.T) {
	c := New(testEtiquette())
	c.SetHTTPClient(&testHTTP{status: 200, body: `{}`})
	_, err := c.FetchBibItem(context.Background(), schema.DocID{Type: schema.DocIDTypeISSN, ID: "1234-5678"}, true)
	if !errors.Is(err, ErrNotDOI) {
		t.Fatalf("expected ErrNotDOI, got %v", err)
	}
}

func TestWork_NotFound(t *testing.T) {
	c := New(testEtiquette())
	c.SetHTTPClient(&testHTTP{status: 404, body: `Resource not found.`})
	if _, err := c.Work(context.Background(), "10.0/none"); !errors.Is(err, sources.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on 404, got %v", err)
	}

	c.SetHTTPClient(&testHTTP{status: 200, body: `{"status":"ok","message":null}`})
	if _, err := c.Work(context.Background(), "10.0/none"); !errors.Is(err, sources.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on null message, got %v", err)
	}
}

func TestWork_HTTPError(t *testing.T) {
	c := New(testEtiquette())
	c.SetHTTPClient(&testHTTP{status: 500, body: "boom"})
	_, err := c.Work(context.Background(), "10.1234/example")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestFetchBibItem_StrictVersusLenient(t *testing.T) {
	// An empty title content fails canonical validation.
	body := `{"status":"ok","message":{"DOI":"10.1234/bad","title":[""]}}`
	c := New(testEtiquette())
	c.SetHTTPClient(&testHTTP{status: 200, body: body})

	_, err := c.FetchBibItem(context.Background(), schema.DocID{Type: schema.DocIDTypeDOI, ID: "10.1234/bad"}, true)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *schema.ValidationError, got %v", err)
	}

	c.SetHTTPClient(&testHTTP{status: 200, body: body})
	got, err := c.FetchBibItem(context.Background(), schema.DocID{Type: schema.DocIDTypeDOI, ID: "10.1234/bad"}, false)
	if err != nil {
		t.Fatalf("lenient fetch: %v", err)
	}
	if len(got.ValidationErrors) == 0 {
		t.Fatalf("expected captured validation errors")
	}
	if got.Item.DocID[0].ID != "10.1234/bad" {
		t.Fatalf("lenient item lost data: %+v", got.Item)
	}
}
