package interfaces

import (
	"context"

	"github.com/ternarybob/docsearch/internal/models"
)

// SearchOptions carries the request-level flags the hybrid scorer honors.
type SearchOptions struct {
	Limit         int
	LibraryIDs    []string // empty means no filter
	IncludeOnline bool
	IncludeSamples bool
}

// SearchService is the hybrid scorer's public contract (C4). The returned
// SearchResult carries the ranked hits plus any degraded-mode notice/warning
// (index fallback, live-adapter failure) per spec.md §7.
type SearchService interface {
	Search(ctx context.Context, query string, opts SearchOptions) (models.SearchResult, error)
}

// LiveAdapter is the uniform capability every live source adapter (C5)
// implements: a bounded, best-effort query and an optional direct lookup.
type LiveAdapter interface {
	Name() string
	Query(ctx context.Context, query string) ([]models.LiveHit, error)
	GetByID(ctx context.Context, id string) (string, bool)
}

// URLResolver maps a Document to its canonical public URL (C6). It must
// never return an error; an unresolvable Document yields an empty string.
type URLResolver interface {
	Resolve(doc *models.Document, content string) string
}

// ContentSource resolves a Document's RelFile back to its on-disk source
// text, backing both the scorer's excerpt stage and the Document Fetcher.
type ContentSource interface {
	Read(libraryID, relFile string) (string, error)
}
