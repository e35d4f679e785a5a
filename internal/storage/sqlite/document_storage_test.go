package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/common"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

func newTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	dir := t.TempDir()
	cfg := &common.SQLiteConfig{
		Path:          filepath.Join(dir, "catalog.db"),
		Environment:   "development",
		BusyTimeoutMS: 5000,
		CacheSizeMB:   16,
	}
	db, err := NewSQLiteDB(arbor.NewLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogStore(db, arbor.NewLogger())
}

func TestSaveAndGetDocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)

	doc := &models.Document{
		ID:          "/sapui5/guides/intro",
		LibraryID:   "/sapui5",
		Kind:        models.KindGuide,
		Title:       "Intro",
		Description: "An introduction",
		RelFile:     "guides/intro.md",
		Metadata:    &models.StructuredMetadata{Control: "Button", Namespace: "sap.m", Properties: []string{"text"}},
	}
	require.NoError(t, store.SaveDocuments([]*models.Document{doc}))

	got, err := store.GetDocument(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Title, got.Title)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "Button", got.Metadata.Control)
}

func TestGetDocumentMissingReturnsNilNoError(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetDocument("missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFullTextSearchFindsMatchAfterRebuild(t *testing.T) {
	store := newTestStore(t)
	doc := &models.Document{
		ID: "/sapui5/06_SAP_Fiori_Elements/column-micro-chart", LibraryID: "/sapui5",
		Kind: models.KindGuide, Title: "Column Micro Chart", Description: "A chart control",
	}
	require.NoError(t, store.SaveDocuments([]*models.Document{doc}))
	require.NoError(t, store.RebuildFTSIndex())

	hits, err := store.FullTextSearch(`"Column Micro Chart"`, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, doc.ID, hits[0].ID)
}

func TestClearAllRemovesDocumentsAndLibraries(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveLibraries([]*models.LibraryBundle{{ID: "/cap", DisplayName: "CAP"}}))
	require.NoError(t, store.SaveDocuments([]*models.Document{{ID: "/cap/intro", LibraryID: "/cap", Kind: models.KindGuide, Title: "Intro"}}))

	count, err := store.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.ClearAll())

	count, err = store.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	libs, err := store.ListLibraries()
	require.NoError(t, err)
	assert.Empty(t, libs)
}

func TestListDocumentsFiltersByLibraryAndKind(t *testing.T) {
	store := newTestStore(t)
	docs := []*models.Document{
		{ID: "/a/1", LibraryID: "/a", Kind: models.KindGuide, Title: "One"},
		{ID: "/a/2", LibraryID: "/a", Kind: models.KindSample, Title: "Two"},
		{ID: "/b/1", LibraryID: "/b", Kind: models.KindGuide, Title: "Three"},
	}
	require.NoError(t, store.SaveDocuments(docs))

	got, err := store.ListDocuments(&interfaces.ListOptions{LibraryID: "/a", Kind: string(models.KindGuide), Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/a/1", got[0].ID)
}
