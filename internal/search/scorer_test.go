package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

type fakeStorage struct {
	docs map[string]*models.Document
}

func newFakeStorage(docs ...*models.Document) *fakeStorage {
	m := map[string]*models.Document{}
	for _, d := range docs {
		m[d.ID] = d
	}
	return &fakeStorage{docs: m}
}

func (f *fakeStorage) SaveDocuments(docs []*models.Document) error { return nil }
func (f *fakeStorage) SaveLibraries(b []*models.LibraryBundle) error { return nil }
func (f *fakeStorage) GetDocument(id string) (*models.Document, error) {
	return f.docs[id], nil
}
func (f *fakeStorage) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	out := make([]*models.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}
func (f *fakeStorage) ListLibraries() ([]*models.LibraryBundle, error) { return nil, nil }
func (f *fakeStorage) FullTextSearch(query string, limit int) ([]*models.Document, error) {
	// Simulate an engine that matches every document, leaving all ranking
	// to the scorer.
	var out []*models.Document
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}
func (f *fakeStorage) RebuildFTSIndex() error  { return nil }
func (f *fakeStorage) CountDocuments() (int, error) { return len(f.docs), nil }
func (f *fakeStorage) ClearAll() error         { return nil }
func (f *fakeStorage) Close() error            { return nil }

// failingStorage simulates an FTS engine error on every query, forcing the
// scorer's full-scan fallback path.
type failingStorage struct {
	*fakeStorage
}

func (f *failingStorage) FullTextSearch(query string, limit int) ([]*models.Document, error) {
	return nil, assert.AnError
}

// failingAdapter always errors, simulating an unreachable live source.
type failingAdapter struct{ name string }

func (a *failingAdapter) Name() string { return a.name }
func (a *failingAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	return nil, assert.AnError
}
func (a *failingAdapter) GetByID(ctx context.Context, id string) (string, bool) { return "", false }

func TestSearchExactTitleHitScoresAtLeast100(t *testing.T) {
	doc := &models.Document{
		ID:        "/sapui5/06_SAP_Fiori_Elements/column-micro-chart-1a4ecb8",
		LibraryID: "/sapui5",
		Kind:      models.KindGuide,
		Title:     "Column Micro Chart",
	}
	storage := newFakeStorage(doc)
	scorer := New(storage, nil, nil, nil, arbor.NewLogger())

	result, err := scorer.Search(context.Background(), "Column Micro Chart", interfaces.SearchOptions{Limit: 10})
	require.NoError(t, err)
	hits := result.Hits
	require.NotEmpty(t, hits)
	assert.Equal(t, doc.ID, hits[0].ID)
	assert.GreaterOrEqual(t, hits[0].Score, 100.0)
	assert.Empty(t, result.Notice)
	assert.Empty(t, result.Warning)
}

func TestSearchResultsAreNonIncreasing(t *testing.T) {
	docs := []*models.Document{
		{ID: "/a/1", LibraryID: "/a", Kind: models.KindGuide, Title: "Wizard Button"},
		{ID: "/a/2", LibraryID: "/a", Kind: models.KindGuide, Title: "Something Else"},
		{ID: "/a/3", LibraryID: "/a", Kind: models.KindGuide, Title: "wizard"},
	}
	storage := newFakeStorage(docs...)
	scorer := New(storage, nil, nil, nil, arbor.NewLogger())

	result, err := scorer.Search(context.Background(), "wizard", interfaces.SearchOptions{Limit: 10})
	require.NoError(t, err)
	hits := result.Hits
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqualf(t, hits[i].Score, hits[i-1].Score, "scores not non-increasing at index %d: %v", i, hits)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	var docs []*models.Document
	for i := 0; i < 20; i++ {
		docs = append(docs, &models.Document{ID: "/a/" + string(rune('a'+i)), LibraryID: "/a", Kind: models.KindGuide, Title: "Button variant"})
	}
	storage := newFakeStorage(docs...)
	scorer := New(storage, nil, nil, nil, arbor.NewLogger())

	result, err := scorer.Search(context.Background(), "button", interfaces.SearchOptions{Limit: 5})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Hits), 5)
}

func TestSearchSurfacesNoticeOnIndexFallback(t *testing.T) {
	doc := &models.Document{ID: "/a/1", LibraryID: "/a", Kind: models.KindGuide, Title: "Wizard Button"}
	storage := &failingStorage{newFakeStorage(doc)}
	scorer := New(storage, nil, nil, nil, arbor.NewLogger())

	result, err := scorer.Search(context.Background(), "wizard", interfaces.SearchOptions{Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Notice)
	assert.Empty(t, result.Warning)
}

func TestSearchSurfacesWarningOnAdapterFailure(t *testing.T) {
	doc := &models.Document{ID: "/a/1", LibraryID: "/a", Kind: models.KindGuide, Title: "Wizard Button"}
	storage := newFakeStorage(doc)
	adapters := []interfaces.LiveAdapter{&failingAdapter{name: "community-forum"}}
	scorer := New(storage, nil, nil, adapters, arbor.NewLogger())

	result, err := scorer.Search(context.Background(), "wizard", interfaces.SearchOptions{Limit: 10, IncludeOnline: true})
	require.NoError(t, err)
	assert.Empty(t, result.Notice)
	assert.Contains(t, result.Warning, "community-forum")
}
