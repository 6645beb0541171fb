package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Document identifier types recognized by the mappers.
const (
	DocIDTypeDOI  = "DOI"
	DocIDTypeISSN = "ISSN"
	DocIDTypeISBN = "ISBN"
)

// Alternate-title type tags. A primary title carries no type.
const (
	TitleSubtitle       = "subtitle"
	TitleOriginal       = "original-title"
	TitleShort          = "short-title"
	TitleContainer      = "container-title"
	TitleShortContainer = "short-container-title"
	TitleGroup          = "group-title"
)

// Contributor role tags.
const (
	RoleAuthor     = "author"
	RoleEditor     = "editor"
	RoleTranslator = "translator"
	RoleChair      = "chair"
	RolePublisher  = "publisher"
)

// DocID identifies a document within some identifier scheme.
// A primary identifier designates the canonical reference key for a
// logical record and must not carry a scope.
type DocID struct {
	Type    string `json:"type" yaml:"type"`
	ID      string `json:"id" yaml:"id"`
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Primary bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// Title is one title of a work. Type is empty for the primary title and
// one of the alternate-title tags otherwise.
type Title struct {
	Content string `json:"content" yaml:"content"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
}

// StringValue wraps plain text so downstream schemas can attach
// language/script metadata; only Content is populated here.
type StringValue struct {
	Content  string `json:"content" yaml:"content"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Script   string `json:"script,omitempty" yaml:"script,omitempty"`
}

// Organization names an institution. Name is an ordered sequence of
// name strings (coarsest first).
type Organization struct {
	Name         []string `json:"name" yaml:"name"`
	Contact      []string `json:"contact,omitempty" yaml:"contact,omitempty"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	Abbreviation string   `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
}

// PersonName holds the parts of a personal name. All parts are optional
// and coexist; none is derived from another.
type PersonName struct {
	Surname      *StringValue  `json:"surname,omitempty" yaml:"surname,omitempty"`
	Forename     []StringValue `json:"forename,omitempty" yaml:"forename,omitempty"`
	CompleteName *StringValue  `json:"completename,omitempty" yaml:"completename,omitempty"`
}

type Person struct {
	Name        PersonName     `json:"name" yaml:"name"`
	Affiliation []Organization `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Contributor links a person or an organization (exactly one of the two)
// to a work under one or more roles.
type Contributor struct {
	Role         []string      `json:"role" yaml:"role"`
	Person       *Person       `json:"person,omitempty" yaml:"person,omitempty"`
	Organization *Organization `json:"organization,omitempty" yaml:"organization,omitempty"`
}

type Link struct {
	Content string `json:"content" yaml:"content"`
}

// Item is the canonical bibliographic record every source is mapped into.
// SeriesInfo maps a series/container label to a descriptor string such as
// "vol. 5, pp. 1-10".
type Item struct {
	DocID       []DocID           `json:"docid" yaml:"docid"`
	Title       []Title           `json:"title,omitempty" yaml:"title,omitempty"`
	Language    string            `json:"language,omitempty" yaml:"language,omitempty"`
	Link        []Link            `json:"link,omitempty" yaml:"link,omitempty"`
	Abstract    []StringValue     `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Contributor []Contributor     `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	SeriesInfo  map[string]string `json:"seriesinfo,omitempty" yaml:"seriesinfo,omitempty"`
	Volume      string            `json:"volume,omitempty" yaml:"volume,omitempty"`
	Page        string            `json:"page,omitempty" yaml:"page,omitempty"`
}

// Validate applies the canonical-record invariants. It reports the first
// problem found.
func (it *Item) Validate() error {
	if len(it.DocID) == 0 {
		return errors.New("docid: at least one document identifier is required")
	}
	for i, id := range it.DocID {
		if strings.TrimSpace(id.ID) == "" {
			return fmt.Errorf("docid[%d]: id is required", i)
		}
		if strings.TrimSpace(id.Type) == "" {
			return fmt.Errorf("docid[%d]: type is required", i)
		}
		if id.Primary && id.Scope != "" {
			return fmt.Errorf("docid[%d]: a primary identifier must not carry a scope", i)
		}
	}
	for i, tt := range it.Title {
		if strings.TrimSpace(tt.Content) == "" {
			return fmt.Errorf("title[%d]: content is required", i)
		}
	}
	for i, l := range it.Link {
		if strings.TrimSpace(l.Content) == "" {
			return fmt.Errorf("link[%d]: content is required", i)
		}
	}
	for i, c := range it.Contributor {
		if len(c.Role) == 0 {
			return fmt.Errorf("contributor[%d]: at least one role is required", i)
		}
		if (c.Person == nil) == (c.Organization == nil) {
			return fmt.Errorf("contributor[%d]: exactly one of person or organization is required", i)
		}
	}
	return nil
}
