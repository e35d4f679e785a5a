package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

type fakeSearch struct {
	called interfaces.SearchOptions
	result models.SearchResult
	err    error
}

func (f *fakeSearch) Search(ctx context.Context, query string, opts interfaces.SearchOptions) (models.SearchResult, error) {
	f.called = opts
	if f.err != nil {
		return models.SearchResult{}, f.err
	}
	if f.result.Hits != nil || f.result.Notice != "" || f.result.Warning != "" {
		return f.result, nil
	}
	return models.SearchResult{Hits: []models.SearchHit{{ID: "ui5/guides/intro"}}}, nil
}

func TestSearchToolValidatesRequiredQuery(t *testing.T) {
	r := New(Dependencies{Search: &fakeSearch{}})
	_, err := r.Call(context.Background(), "search", Args{})
	assert.Error(t, err)
}

func TestSearchToolDispatchesToSearchService(t *testing.T) {
	fs := &fakeSearch{}
	r := New(Dependencies{Search: fs})
	result, err := r.Call(context.Background(), "search", Args{"query": "Column Micro Chart", "k": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, fs.called.Limit)
	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, m["results"])
	assert.NotContains(t, m, "notice")
	assert.NotContains(t, m, "warning")
}

func TestSearchToolSurfacesIndexFallbackNotice(t *testing.T) {
	fs := &fakeSearch{result: models.SearchResult{
		Hits:   []models.SearchHit{{ID: "ui5/guides/intro"}},
		Notice: "search index unavailable; results served from a full catalog scan",
	}}
	r := New(Dependencies{Search: fs})
	result, err := r.Call(context.Background(), "search", Args{"query": "wizard"})
	require.NoError(t, err)
	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "search index unavailable; results served from a full catalog scan", m["notice"])
}

func TestSearchToolSurfacesAdapterWarning(t *testing.T) {
	fs := &fakeSearch{result: models.SearchResult{
		Hits:    []models.SearchHit{{ID: "ui5/guides/intro"}},
		Warning: "upstream unavailable: community-forum",
	}}
	r := New(Dependencies{Search: fs})
	result, err := r.Call(context.Background(), "search", Args{"query": "wizard", "includeOnline": true})
	require.NoError(t, err)
	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "upstream unavailable: community-forum", m["warning"])
}

func TestSearchToolPropagatesHardError(t *testing.T) {
	fs := &fakeSearch{err: errors.New("storage closed")}
	r := New(Dependencies{Search: fs})
	_, err := r.Call(context.Background(), "search", Args{"query": "wizard"})
	assert.Error(t, err)
}

func TestFetchToolDispatchesToFetchFunc(t *testing.T) {
	called := ""
	r := New(Dependencies{Fetch: func(id string) string {
		called = id
		return "body text"
	}})
	result, err := r.Call(context.Background(), "fetch", Args{"id": "ui5/guides/intro"})
	require.NoError(t, err)
	assert.Equal(t, "ui5/guides/intro", called)
	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "body text", m["text"])
}

func TestUnknownToolReturnsValidationError(t *testing.T) {
	r := New(Dependencies{})
	_, err := r.Call(context.Background(), "nonexistent", Args{})
	assert.Error(t, err)
}

func TestPromptGetInterpolatesKnownArgsAndIgnoresUnknown(t *testing.T) {
	ps := NewPromptSet()
	body, ok := ps.Get("search_and_summarize", map[string]string{"query": "fiori elements", "bogus": "ignored"})
	require.True(t, ok)
	assert.NotEmpty(t, body)
	assert.Contains(t, body, "fiori elements")
	assert.NotContains(t, body, "ignored")
}

func TestPromptGetUnknownNameFails(t *testing.T) {
	ps := NewPromptSet()
	_, ok := ps.Get("does-not-exist", nil)
	assert.False(t, ok)
}
