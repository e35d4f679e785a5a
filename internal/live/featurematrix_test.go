package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestFeatureMatrixQueryParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"feature":"RAP","minRelease":"2021","flavor":"cloud","description":"Restful ABAP Programming","url":"https://example.test/rap"}]`))
	}))
	defer srv.Close()

	a := NewFeatureMatrixAdapter(Config{BaseURL: srv.URL}, arbor.NewLogger())
	hits, err := a.Query(context.Background(), "RAP")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Title, "RAP")
	assert.Equal(t, "https://example.test/rap", hits[0].URL)
	assert.Equal(t, "abap-feature-matrix", hits[0].Source)
}

func TestFeatureMatrixQueryDegradesOnNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>bot protection</html>`))
	}))
	defer srv.Close()

	a := NewFeatureMatrixAdapter(Config{BaseURL: srv.URL}, arbor.NewLogger())
	hits, err := a.Query(context.Background(), "RAP")
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFeatureMatrixGetByIDAlwaysMisses(t *testing.T) {
	a := NewFeatureMatrixAdapter(Config{BaseURL: "https://example.test"}, arbor.NewLogger())
	_, ok := a.GetByID(context.Background(), "anything")
	assert.False(t, ok)
}
