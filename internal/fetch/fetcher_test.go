package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

type fakeStorage struct {
	docs map[string]*models.Document
}

func (f *fakeStorage) SaveDocuments(docs []*models.Document) error             { return nil }
func (f *fakeStorage) SaveLibraries(bundles []*models.LibraryBundle) error     { return nil }
func (f *fakeStorage) GetDocument(id string) (*models.Document, error)         { return f.docs[id], nil }
func (f *fakeStorage) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	return nil, nil
}
func (f *fakeStorage) ListLibraries() ([]*models.LibraryBundle, error)            { return nil, nil }
func (f *fakeStorage) FullTextSearch(query string, limit int) ([]*models.Document, error) {
	return nil, nil
}
func (f *fakeStorage) RebuildFTSIndex() error { return nil }
func (f *fakeStorage) CountDocuments() (int, error) { return len(f.docs), nil }
func (f *fakeStorage) ClearAll() error              { return nil }
func (f *fakeStorage) Close() error                 { return nil }

type fakeContent struct{ bodies map[string]string }

func (c *fakeContent) Read(libraryID, relFile string) (string, error) {
	return c.bodies[libraryID+"/"+relFile], nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(doc *models.Document, content string) string {
	return "https://example.test/" + doc.ID
}

type fakeAdapter struct {
	name string
	byID map[string]string
}

func (a *fakeAdapter) Name() string { return a.name }
func (a *fakeAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	return nil, nil
}
func (a *fakeAdapter) GetByID(ctx context.Context, id string) (string, bool) {
	body, ok := a.byID[id]
	return body, ok
}

func TestFetchLocalDocument(t *testing.T) {
	storage := &fakeStorage{docs: map[string]*models.Document{
		"ui5/guides/intro": {ID: "ui5/guides/intro", LibraryID: "ui5", RelFile: "guides/intro.md", Title: "Intro"},
	}}
	content := &fakeContent{bodies: map[string]string{"ui5/guides/intro.md": "# Intro\nHello world."}}
	f := New(storage, content, fakeResolver{}, nil, nil)

	got := f.Fetch("ui5/guides/intro")
	assert.Contains(t, got, "Hello world.")
	assert.Contains(t, got, "Source: https://example.test")
}

func TestFetchSectionSlicesByHeadingLevel(t *testing.T) {
	body := "# Title\n\n## First\nfirst body\n\n## Second\nsecond body\n"
	storage := &fakeStorage{docs: map[string]*models.Document{
		"ui5/guides/intro": {ID: "ui5/guides/intro", LibraryID: "ui5", RelFile: "guides/intro.md", Title: "Intro"},
		"ui5/guides/intro#first": {
			ID: "ui5/guides/intro#first", LibraryID: "ui5", Kind: models.KindSection,
			Title: "First", ParentID: "ui5/guides/intro", HeadingLevel: 2, StartLine: 3,
		},
	}}
	content := &fakeContent{bodies: map[string]string{"ui5/guides/intro.md": body}}
	f := New(storage, content, fakeResolver{}, nil, nil)

	got := f.Fetch("ui5/guides/intro#first")
	assert.Contains(t, got, "first body")
	assert.NotContains(t, got, "second body")
}

func TestFetchExternalDispatchesToAdapter(t *testing.T) {
	adapter := &fakeAdapter{name: "sap-help", byID: map[string]string{"123": "help body"}}
	f := New(&fakeStorage{docs: map[string]*models.Document{}}, &fakeContent{}, fakeResolver{}, []interfaces.LiveAdapter{adapter}, nil)

	got := f.Fetch("sap-help-123")
	require.Equal(t, "help body", got)
}

func TestFetchUnknownIdentifierReturnsNotFound(t *testing.T) {
	f := New(&fakeStorage{docs: map[string]*models.Document{}}, &fakeContent{}, fakeResolver{}, nil, nil)
	assert.Equal(t, notFoundBody, f.Fetch("missing/doc"))
}
