package crossref

import (
	"encoding/json"
	"strings"

	"bibcompose/src/internal/isbn"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/stringsx"
)

// Work is the subset of a Crossref work record this service consumes.
// Every field is optional; absent fields decode to zero values.
type Work struct {
	DOI                 string       `json:"DOI"`
	ISSN                []string     `json:"ISSN"`
	ISBN                []string     `json:"ISBN"`
	Title               StringOrList `json:"title"`
	Subtitle            StringOrList `json:"subtitle"`
	OriginalTitle       StringOrList `json:"original-title"`
	ShortTitle          StringOrList `json:"short-title"`
	ContainerTitle      StringOrList `json:"container-title"`
	ShortContainerTitle StringOrList `json:"short-container-title"`
	GroupTitle          StringOrList `json:"group-title"`
	Author              []Author     `json:"author"`
	Editor              []Author     `json:"editor"`
	Translator          []Author     `json:"translator"`
	Chair               []Author     `json:"chair"`
	Volume              string       `json:"volume"`
	Page                string       `json:"page"`
	JournalIssue        JournalIssue `json:"journal-issue"`
	Publisher           string       `json:"publisher"`
	Type                string       `json:"type"`
	Language            string       `json:"language"`
	URL                 string       `json:"URL"`
	Abstract            string       `json:"abstract"`
}

// Author is a Crossref author-like object, shared by all contributor
// roles (author, editor, translator, chair).
type Author struct {
	Family      string        `json:"family"`
	Given       string        `json:"given"`
	Name        string        `json:"name"`
	Affiliation []Affiliation `json:"affiliation"`
}

type Affiliation struct {
	Name string `json:"name"`
}

type JournalIssue struct {
	Issue string `json:"issue"`
}

// StringOrList decodes a JSON value that may be a single string or a
// list of strings.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = nil
		return nil
	}
	if b[0] == '[' {
		var vals []string
		if err := json.Unmarshal(b, &vals); err != nil {
			return err
		}
		*s = vals
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = StringOrList{v}
	return nil
}

// mapWork converts a raw Crossref work into a canonical record. The
// requested identifier supplies the DOI when the response lacks one.
func mapWork(id schema.DocID, w Work) schema.Item {
	var it schema.Item
	it.DocID = docIDs(id, w)
	it.Title = titles(w)
	it.Language = w.Language
	if w.URL != "" {
		it.Link = []schema.Link{{Content: w.URL}}
	}
	if w.Abstract != "" {
		it.Abstract = []schema.StringValue{{Content: w.Abstract}}
	}
	contribs := contributors(w)
	si, volume, page, withPublisher := seriesInfo(w)
	if withPublisher {
		contribs = append(contribs, schema.Contributor{
			Role:         []string{schema.RolePublisher},
			Organization: &schema.Organization{Name: []string{w.Publisher}},
		})
	}
	it.Contributor = contribs
	it.SeriesInfo = si
	it.Volume = volume
	it.Page = page
	return it
}

func docIDs(id schema.DocID, w Work) []schema.DocID {
	ids := []schema.DocID{{
		Type: schema.DocIDTypeDOI,
		ID:   stringsx.FirstNonEmpty(w.DOI, id.ID),
	}}
	for _, issn := range w.ISSN {
		ids = append(ids, schema.DocID{Type: schema.DocIDTypeISSN, ID: issn})
	}
	// Crossref returns ISBNs without dashes; only 13-character values
	// regroup cleanly, others are dropped.
	for _, v := range w.ISBN {
		if len(v) != 13 {
			continue
		}
		ids = append(ids, schema.DocID{Type: schema.DocIDTypeISBN, ID: isbn.Dash13(v)})
	}
	return ids
}

func titles(w Work) []schema.Title {
	var out []schema.Title
	for _, t := range w.Title {
		out = append(out, schema.Title{Content: t})
	}
	alts := []struct {
		tag  string
		vals StringOrList
	}{
		{schema.TitleSubtitle, w.Subtitle},
		{schema.TitleOriginal, w.OriginalTitle},
		{schema.TitleShort, w.ShortTitle},
		{schema.TitleContainer, w.ContainerTitle},
		{schema.TitleShortContainer, w.ShortContainerTitle},
		{schema.TitleGroup, w.GroupTitle},
	}
	for _, a := range alts {
		for _, v := range a.vals {
			out = append(out, schema.Title{Content: v, Type: a.tag})
		}
	}
	return out
}

func contributors(w Work) []schema.Contributor {
	var out []schema.Contributor
	roles := []struct {
		role    string
		entries []Author
	}{
		{schema.RoleAuthor, w.Author},
		{schema.RoleEditor, w.Editor},
		{schema.RoleTranslator, w.Translator},
		{schema.RoleChair, w.Chair},
	}
	for _, r := range roles {
		for _, a := range r.entries {
			out = append(out, toContributor(r.role, a))
		}
	}
	return out
}

// toContributor builds a person contributor from a Crossref author-like
// object. Crossref tends to supply an abbreviation in the affiliation
// name slot; the value is preserved as-is.
func toContributor(role string, a Author) schema.Contributor {
	var p schema.Person
	if a.Family != "" {
		p.Name.Surname = &schema.StringValue{Content: a.Family}
	}
	if a.Name != "" {
		p.Name.CompleteName = &schema.StringValue{Content: a.Name}
	}
	if a.Given != "" {
		p.Name.Forename = []schema.StringValue{{Content: a.Given}}
	}
	for _, aff := range a.Affiliation {
		p.Affiliation = append(p.Affiliation, schema.Organization{Name: []string{aff.Name}})
	}
	return schema.Contributor{Role: []string{role}, Person: &p}
}

// seriesInfo derives the series-info mapping and the volume/page values
// for the canonical record. withPublisher reports that the publisher
// branch fired and the caller must add a publisher contributor.
func seriesInfo(w Work) (si map[string]string, volume, page string, withPublisher bool) {
	switch {
	case len(w.ContainerTitle) > 0:
		ct := w.ContainerTitle[0]
		var parts []string
		if w.Volume != "" {
			vi := "vol. " + w.Volume
			if w.JournalIssue.Issue != "" {
				vi += ", no. " + w.JournalIssue.Issue
			}
			parts = append(parts, vi)
		}
		if w.Page != "" {
			parts = append(parts, "pp. "+w.Page)
		}
		if len(parts) > 0 {
			si = map[string]string{ct: strings.Join(parts, ", ")}
			volume, page = w.Volume, w.Page
		} else {
			key, val := splitTrailingWord(ct)
			si = map[string]string{key: val}
		}
	case w.Publisher != "":
		if w.Type != "" {
			si = map[string]string{w.Publisher: w.Type}
		} else {
			key, val := splitTrailingWord(w.Publisher)
			si = map[string]string{key: val}
		}
		withPublisher = true
	}
	return si, volume, page, withPublisher
}

// splitTrailingWord splits s on spaces: everything before the last word
// becomes the key, the last word the value. Inherited from the
// kramdown-rfc2629 doilit heuristic and kept for parity with records
// produced by it; a single word yields an empty key.
func splitTrailingWord(s string) (key, val string) {
	words := strings.Split(s, " ")
	return strings.Join(words[:len(words)-1], " "), words[len(words)-1]
}
