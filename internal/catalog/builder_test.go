package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/harvest"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

type fakeStorage struct {
	cleared      bool
	rebuiltFTS   bool
	docs         []*models.Document
	libraries    []*models.LibraryBundle
	failOnRebuild bool
}

func (f *fakeStorage) SaveDocuments(docs []*models.Document) error {
	f.docs = append(f.docs, docs...)
	return nil
}
func (f *fakeStorage) SaveLibraries(bundles []*models.LibraryBundle) error {
	f.libraries = append(f.libraries, bundles...)
	return nil
}
func (f *fakeStorage) GetDocument(id string) (*models.Document, error) { return nil, nil }
func (f *fakeStorage) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	return f.docs, nil
}
func (f *fakeStorage) ListLibraries() ([]*models.LibraryBundle, error) { return f.libraries, nil }
func (f *fakeStorage) FullTextSearch(query string, limit int) ([]*models.Document, error) {
	return nil, nil
}
func (f *fakeStorage) RebuildFTSIndex() error {
	if f.failOnRebuild {
		return assertErr
	}
	f.rebuiltFTS = true
	return nil
}
func (f *fakeStorage) CountDocuments() (int, error) { return len(f.docs), nil }
func (f *fakeStorage) ClearAll() error {
	f.cleared = true
	f.docs = nil
	f.libraries = nil
	return nil
}
func (f *fakeStorage) Close() error { return nil }

var assertErr = &fakeErr{"boom"}

type fakeErr struct{ msg string }

func (e *fakeErr) Error() string { return e.msg }

func TestRebuildWritesIndexAndMirrors(t *testing.T) {
	dir := t.TempDir()
	storage := &fakeStorage{}
	b := New(storage, arbor.NewLogger(), dir)

	results := []harvest.Result{
		{
			Bundle: models.LibraryBundle{ID: "/sapui5", DisplayName: "SAPUI5"},
			Documents: []*models.Document{
				{ID: "/sapui5/guides/intro", LibraryID: "/sapui5", Kind: models.KindGuide, Title: "Intro"},
			},
		},
	}

	err := b.Rebuild(results)
	require.NoError(t, err)

	assert.True(t, storage.cleared)
	assert.True(t, storage.rebuiltFTS)
	assert.Len(t, storage.docs, 1)
	assert.Len(t, storage.libraries, 1)

	indexPath := filepath.Join(dir, "index.json")
	raw, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	var index map[string]indexEntry
	require.NoError(t, json.Unmarshal(raw, &index))
	require.Contains(t, index, "/sapui5")
	assert.Equal(t, []string{"/sapui5/guides/intro"}, index["/sapui5"].DocumentIDs)

	mirrorPath := filepath.Join(dir, "data_sapui5.json")
	_, err = os.Stat(mirrorPath)
	assert.NoError(t, err)
}

func TestRebuildPropagatesFTSError(t *testing.T) {
	dir := t.TempDir()
	storage := &fakeStorage{failOnRebuild: true}
	b := New(storage, arbor.NewLogger(), dir)

	err := b.Rebuild([]harvest.Result{{Bundle: models.LibraryBundle{ID: "/cap"}}})
	assert.Error(t, err)
}

func TestSanitizeLibraryIDStripsSlashes(t *testing.T) {
	assert.Equal(t, "sapui5", sanitizeLibraryID("/sapui5"))
}
