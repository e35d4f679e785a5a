package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitExtractsScalarsAndBody(t *testing.T) {
	content := "---\ntitle: Wizard\nsynopsis: \"A quick intro\"\n---\n# Wizard\nbody text"
	meta, body := Split(content)
	assert.Equal(t, "Wizard", meta["title"])
	assert.Equal(t, "A quick intro", meta["synopsis"])
	assert.Equal(t, "# Wizard\nbody text", body)
}

func TestSplitWithoutDelimiterReturnsWholeBody(t *testing.T) {
	meta, body := Split("# No front matter\nhello")
	assert.Nil(t, meta)
	assert.Equal(t, "# No front matter\nhello", body)
}

func TestSplitUnterminatedDelimiterReturnsWholeBody(t *testing.T) {
	content := "---\ntitle: Wizard\nno closing delimiter"
	meta, body := Split(content)
	assert.Nil(t, meta)
	assert.Equal(t, content, body)
}

func TestParseSequenceFlattensToCommaJoin(t *testing.T) {
	block := "keywords:\n  - wizard\n  - multi-step\n  - 'process'"
	meta := Parse(block)
	assert.Equal(t, "wizard,multi-step,process", meta["keywords"])
}

func TestParseSkipsMalformedLines(t *testing.T) {
	block := "not a valid line without colon\ntitle: Ok"
	meta := Parse(block)
	assert.Equal(t, "Ok", meta["title"])
	assert.Len(t, meta, 1)
}
