package urlresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/docsearch/internal/models"
)

func TestResolveTopicID(t *testing.T) {
	r := New([]models.UrlConfig{
		{LibraryID: "sapui5", BaseURL: "https://ui5.sap.com", AnchorStyle: models.AnchorStyleDocsify},
	})
	doc := &models.Document{LibraryID: "sapui5", RelFile: "guides/foo.md", Title: "Foo"}
	content := "<!-- loio1234567890abcdef -->\n# Foo\nbody"

	got := r.Resolve(doc, content)
	assert.Contains(t, got, "/#/topic/loio1234567890abcdef")
}

func TestResolveAPIReference(t *testing.T) {
	r := New([]models.UrlConfig{
		{LibraryID: "openui5-api", BaseURL: "https://sdk.openui5.org"},
	})
	doc := &models.Document{
		LibraryID: "openui5-api",
		Kind:      models.KindAPIReference,
		RelFile:   "src/sap/m/ColumnMicroChart.js",
		Title:     "sap.m.ColumnMicroChart",
	}
	got := r.Resolve(doc, "")
	assert.Equal(t, "https://sdk.openui5.org/#/api/sap.m.ColumnMicroChart", got)
}

func TestResolveSamples(t *testing.T) {
	r := New([]models.UrlConfig{
		{LibraryID: "openui5-samples", BaseURL: "https://sdk.openui5.org"},
	})
	doc := &models.Document{
		LibraryID: "openui5-samples",
		Kind:      models.KindSample,
		RelFile:   "sap/m/sample/ColumnMicroChart/Basic.html",
		Title:     "Basic",
		Metadata:  &models.StructuredMetadata{Control: "sap.m.ColumnMicroChart"},
	}
	got := r.Resolve(doc, "")
	assert.Equal(t, "https://sdk.openui5.org/entity/sap.m.ColumnMicroChart/sample/Basic", got)
}

func TestResolveGenericFallback(t *testing.T) {
	r := New([]models.UrlConfig{
		{LibraryID: "cap", BaseURL: "https://cap.cloud.sap", PathPattern: "/docs/{file}"},
	})
	doc := &models.Document{LibraryID: "cap", RelFile: "guides/intro.md", Title: "Intro"}
	got := r.Resolve(doc, "no front matter here")
	assert.Equal(t, "https://cap.cloud.sap/docs/intro", got)
}

func TestResolveUnknownLibraryReturnsEmpty(t *testing.T) {
	r := New(nil)
	doc := &models.Document{LibraryID: "unregistered", RelFile: "a.md"}
	assert.Empty(t, r.Resolve(doc, ""))
}

func TestResolveNilDocument(t *testing.T) {
	r := New(nil)
	assert.Empty(t, r.Resolve(nil, ""))
}
