package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTMLStripsTagsAndDecodesEntities(t *testing.T) {
	raw := `<html><body><script>evil()</script><h1>Title</h1><p>Body &amp; more</p></body></html>`
	got := sanitizeHTML(raw)
	assert.NotContains(t, got, "evil()")
	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "Body & more")
}

func TestHTMLSnippetToMarkdownConvertsBasicTags(t *testing.T) {
	got := htmlSnippetToMarkdown("<p>Hello <strong>world</strong></p>")
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "world")
}

func TestStripTagsRemovesAngleBracketSpans(t *testing.T) {
	assert.Equal(t, "Hello world", stripTags("<b>Hello</b> <i>world</i>"))
}
