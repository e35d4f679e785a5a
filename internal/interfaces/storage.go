// Package interfaces defines the seams between the catalog/search layer and
// its storage and scoring backends, kept small so tests can supply hand-
// rolled fakes instead of a mocking framework.
package interfaces

import "github.com/ternarybob/docsearch/internal/models"

// ListOptions filters a catalog listing.
type ListOptions struct {
	LibraryID string
	Kind      string
	Limit     int
}

// CatalogStorage persists the Document catalog and its FTS projection.
type CatalogStorage interface {
	SaveDocuments(docs []*models.Document) error
	SaveLibraries(bundles []*models.LibraryBundle) error
	GetDocument(id string) (*models.Document, error)
	ListDocuments(opts *ListOptions) ([]*models.Document, error)
	ListLibraries() ([]*models.LibraryBundle, error)

	// FullTextSearch runs an FTS5 MATCH query and returns up to limit
	// candidate Documents, ranked by the engine's own relevance order.
	FullTextSearch(query string, limit int) ([]*models.Document, error)

	// RebuildFTSIndex drops and recreates the FTS projection from the
	// Document table in a single transaction. Idempotent.
	RebuildFTSIndex() error

	CountDocuments() (int, error)
	ClearAll() error
	Close() error
}
