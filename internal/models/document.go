// Package models defines the core catalog types shared across the harvester,
// storage layer, scorer, and tool surface.
package models

// Document kinds. A Document is modeled as a tagged variant: callers switch on
// Kind rather than relying on Go type assertions or embedding.
const (
	KindGuide        = "guide"
	KindAPIReference = "api-reference"
	KindSample       = "sample"
	KindSection      = "section"
	KindExternalPost = "external-post"
)

// StructuredMetadata carries the optional per-kind attributes a Document may
// declare: control name, namespace, and property/event/aggregation lists for
// jsdoc-like API reference entries, plus a keyword set used by the scorer and
// the FTS keyword blob.
type StructuredMetadata struct {
	Control      string   `json:"control,omitempty"`
	Namespace    string   `json:"namespace,omitempty"`
	Properties   []string `json:"properties,omitempty"`
	Events       []string `json:"events,omitempty"`
	Aggregations []string `json:"aggregations,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// Document is every indexed unit in the catalog: guides, API reference
// entries, samples, synthesized sections, and external posts mirrored from a
// live adapter.
type Document struct {
	// ID is an opaque, slash-delimited identifier whose first segment equals
	// LibraryID. Section documents append "#" plus a slugified heading.
	ID          string `json:"id"`
	LibraryID   string `json:"libraryId"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RelFile     string `json:"relFile"`
	SnippetCount int   `json:"snippetCount"`

	Metadata *StructuredMetadata `json:"metadata,omitempty"`

	// Section-only attributes.
	ParentID    string `json:"parentId,omitempty"`
	HeadingLevel int   `json:"headingLevel,omitempty"`
	StartLine    int   `json:"startLine,omitempty"`
}

// IsSection reports whether d is a synthesized heading-level Document.
func (d *Document) IsSection() bool {
	return d.Kind == KindSection
}

// LibraryBundle is a named group of Documents sharing an identifier prefix.
type LibraryBundle struct {
	ID          string `json:"id"` // leading-slash identifier, e.g. "/ui5"
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// FTSEntry is the denormalized projection of a Document indexed for
// full-text search. KeywordBlob concatenates keywords, properties, events,
// and aggregations into a single searchable column.
type FTSEntry struct {
	ID           string
	LibraryID    string
	Kind         string
	Title        string
	Description  string
	KeywordBlob  string
	Control      string
	Namespace    string
	RelFile      string
	SnippetCount int
}
